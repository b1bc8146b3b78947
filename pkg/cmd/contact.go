package cmd

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nekruzvatanshoev/velocity/pkg/velocity/view"
)

var ContactCmd = &cobra.Command{
	Use:   "contact",
	Short: "Send a message to the dealership",
	Args:  cobra.NoArgs,
	RunE:  runContact,
}

func init() {
	ContactCmd.Flags().String("name", "", "your name")
	ContactCmd.Flags().String("email", "", "your email address")
	ContactCmd.Flags().String("phone", "", "your phone number")
	ContactCmd.Flags().String("message", "", "message body")
	ContactCmd.MarkFlagRequired("name")
	ContactCmd.MarkFlagRequired("email")
	ContactCmd.MarkFlagRequired("message")
}

// contactFields maps command flags to contact form inputs.
var contactFields = []struct{ flag, field string }{
	{"name", "from_name"},
	{"email", "from_email"},
	{"phone", "user_phone"},
	{"message", "message"},
}

func runContact(cmd *cobra.Command, args []string) error {
	mailer := newMailer()
	defer mailer.Close()

	form := view.NewContactForm(mailer)
	for _, f := range contactFields {
		value, err := cmd.Flags().GetString(f.flag)
		if err != nil {
			return err
		}
		if err := form.SetField(f.field, value); err != nil {
			return err
		}
	}

	result := form.Submit(cmd.Context())
	if !result.Sent {
		log.WithError(result.Err).Debug("Contact message not sent")
		return fmt.Errorf("message not sent: %w", result.Err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Message sent")
	return nil
}
