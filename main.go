package main

import "github.com/nekruzvatanshoev/velocity/pkg/cmd"

func main() {
	cmd.Execute()
}
