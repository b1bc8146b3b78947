package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/nekruzvatanshoev/velocity/pkg/velocity/dal"
	"github.com/nekruzvatanshoev/velocity/pkg/velocity/view"
)

var (
	CatalogCmd = &cobra.Command{
		Use:   "catalog",
		Short: "Browse and manage the vehicle catalog",
	}

	catalogListCmd = &cobra.Command{
		Use:   "list",
		Short: "List vehicles matching the given filters",
		Args:  cobra.NoArgs,
		RunE:  runCatalogList,
	}

	catalogShowCmd = &cobra.Command{
		Use:   "show [id]",
		Short: "Show a single vehicle by id, or by position with --at",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runCatalogShow,
	}

	catalogBrandsCmd = &cobra.Command{
		Use:   "brands",
		Short: "List the distinct brands in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDistinct(cmd, (*view.CatalogView).Brands)
		},
	}

	catalogTypesCmd = &cobra.Command{
		Use:   "types",
		Short: "List the distinct vehicle types in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDistinct(cmd, (*view.CatalogView).Types)
		},
	}

	catalogAddCmd = &cobra.Command{
		Use:   "add",
		Short: "Add a vehicle from a JSON file, field flags, or both",
		Long: `Add a vehicle to the catalog. The draft starts from --file when given, then
each --set field=value, --specification name=value and --feature is applied in order.`,
		Example: `  velocity catalog add --set name=Chiron --set brand=Bugatti --set price=3000000 \
    --specification engine="8.0L W16" --feature "Carbon body"`,
		Args: cobra.NoArgs,
		RunE: runCatalogAdd,
	}

	catalogDeleteCmd = &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a vehicle by id",
		Args:  cobra.ExactArgs(1),
		RunE:  runCatalogDelete,
	}
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)

func init() {
	CatalogCmd.PersistentFlags().Bool("json", false, "print JSON instead of a table")

	addCriteriaFlags(catalogListCmd.Flags())
	catalogShowCmd.Flags().Int("at", -1, "zero-based position in the catalog")
	catalogAddCmd.Flags().StringP("file", "f", "", "JSON file describing the vehicle")
	catalogAddCmd.Flags().StringArray("set", nil, "vehicle field as field=value (repeatable)")
	catalogAddCmd.Flags().StringArray("specification", nil, "specification as name=value (repeatable)")
	catalogAddCmd.Flags().StringArray("feature", nil, "feature line (repeatable)")

	CatalogCmd.AddCommand(catalogListCmd, catalogShowCmd, catalogBrandsCmd,
		catalogTypesCmd, catalogAddCmd, catalogDeleteCmd)
}

func addCriteriaFlags(fs *pflag.FlagSet) {
	c := dal.DefaultCriteria()
	fs.String("search", "", "case-insensitive name search")
	fs.String("brand", c.Brand, "brand, or \"all\"")
	fs.String("type", c.Type, "vehicle type, or \"all\"")
	fs.Int64("min-price", c.PriceRange.Min, "minimum price")
	fs.Int64("max-price", c.PriceRange.Max, "maximum price")
	fs.Int("min-top-speed", c.MinTopSpeed, "minimum top speed")
}

func criteriaFromFlags(fs *pflag.FlagSet) (dal.Criteria, error) {
	var (
		c   dal.Criteria
		err error
	)
	if c.Search, err = fs.GetString("search"); err != nil {
		return c, err
	}
	if c.Brand, err = fs.GetString("brand"); err != nil {
		return c, err
	}
	if c.Type, err = fs.GetString("type"); err != nil {
		return c, err
	}
	if c.PriceRange.Min, err = fs.GetInt64("min-price"); err != nil {
		return c, err
	}
	if c.PriceRange.Max, err = fs.GetInt64("max-price"); err != nil {
		return c, err
	}
	if c.MinTopSpeed, err = fs.GetInt("min-top-speed"); err != nil {
		return c, err
	}
	if c.PriceRange.Min > c.PriceRange.Max {
		return c, fmt.Errorf("min-price %d exceeds max-price %d", c.PriceRange.Min, c.PriceRange.Max)
	}
	return c, nil
}

func jsonOutput(cmd *cobra.Command) bool {
	asJSON, _ := cmd.Flags().GetBool("json")
	return asJSON
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	criteria, err := criteriaFromFlags(cmd.Flags())
	if err != nil {
		return err
	}

	client := newCatalogClient()
	defer client.Close()

	v := view.NewCatalogView(client, criteria)
	defer v.Close()
	if err := v.Open(cmd.Context()); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput(cmd) {
		return printJSON(out, v.Response())
	}
	if v.Empty() {
		fmt.Fprintln(out, "No vehicles match your criteria")
		return nil
	}
	fmt.Fprintln(out, vehicleTable(v.Visible()))
	fmt.Fprintf(out, "%d of %d vehicles\n", len(v.Visible()), v.Total())
	return nil
}

func vehicleTable(vehicles []dal.Vehicle) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "NAME", "BRAND", "TYPE", "PRICE", "TOP SPEED", "0-60").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	for _, v := range vehicles {
		t.Row(
			strconv.Itoa(v.ID),
			v.Name,
			v.Brand,
			v.Type,
			formatPrice(v.Price),
			fmt.Sprintf("%d mph", v.TopSpeed),
			v.Acceleration,
		)
	}
	return t.String()
}

func formatPrice(price int64) string {
	return message.NewPrinter(language.English).Sprintf("$%d", price)
}

func runCatalogShow(cmd *cobra.Command, args []string) error {
	at, err := cmd.Flags().GetInt("at")
	if err != nil {
		return err
	}
	if (len(args) == 0) == (at < 0) {
		return fmt.Errorf("specify either an id or --at")
	}

	client := newCatalogClient()
	defer client.Close()

	d := view.NewDetailView(client)
	defer d.Close()
	if at >= 0 {
		err = d.OpenAt(cmd.Context(), at)
	} else {
		id, convErr := strconv.Atoi(args[0])
		if convErr != nil {
			return fmt.Errorf("invalid id %q", args[0])
		}
		err = d.OpenByID(cmd.Context(), id)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput(cmd) {
		return printJSON(out, d.Response())
	}
	printDetail(out, d)
	return nil
}

func printDetail(w io.Writer, d *view.DetailView) {
	v, _ := d.Vehicle()
	fmt.Fprintln(w, headerStyle.Render(v.Name))
	fmt.Fprintf(w, "%s %s\n", v.Brand, v.Type)
	fmt.Fprintf(w, "Price: %s  Top speed: %d mph  0-60: %s  Power: %s\n",
		formatPrice(v.Price), v.TopSpeed, v.Acceleration, v.Power)
	if v.Description != "" {
		fmt.Fprintf(w, "\n%s\n", v.Description)
	}

	specs := table.New().Border(lipgloss.HiddenBorder())
	for _, s := range d.Specifications() {
		specs.Row(s.Key, s.Value)
	}
	fmt.Fprintf(w, "\nSpecifications\n%s\n", specs)

	if d.HasFeatures() {
		fmt.Fprintln(w, "\nFeatures")
		for _, f := range v.Features {
			fmt.Fprintf(w, "  - %s\n", f)
		}
	}
}

func runDistinct(cmd *cobra.Command, values func(*view.CatalogView) []string) error {
	client := newCatalogClient()
	defer client.Close()

	v := view.NewCatalogView(client, dal.DefaultCriteria())
	defer v.Close()
	if err := v.Open(cmd.Context()); err != nil {
		return err
	}

	list := values(v)
	if jsonOutput(cmd) {
		return printJSON(cmd.OutOrStdout(), list)
	}
	for _, s := range list {
		fmt.Fprintln(cmd.OutOrStdout(), s)
	}
	return nil
}

func runCatalogAdd(cmd *cobra.Command, args []string) error {
	client := newCatalogClient()
	defer client.Close()

	form := view.NewAdminForm(client)
	defer form.Close()
	if err := fillDraft(form, cmd.Flags()); err != nil {
		return err
	}

	created, err := form.Submit(cmd.Context())
	if err != nil {
		return err
	}

	if jsonOutput(cmd) {
		return printJSON(cmd.OutOrStdout(), created)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added %s (id %d)\n", created.Name, created.ID)
	return nil
}

// fillDraft builds the admin draft from the add flags.
func fillDraft(form *view.AdminForm, fs *pflag.FlagSet) error {
	path, err := fs.GetString("file")
	if err != nil {
		return err
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		var draft dal.Vehicle
		if err := json.Unmarshal(data, &draft); err != nil {
			return fmt.Errorf("decode %s: %w", path, err)
		}
		form.SetDraft(draft)
	}

	sets, err := fs.GetStringArray("set")
	if err != nil {
		return err
	}
	for _, kv := range sets {
		name, value, err := splitAssignment("set", kv)
		if err != nil {
			return err
		}
		if err := form.SetField(name, value); err != nil {
			return err
		}
	}

	specs, err := fs.GetStringArray("specification")
	if err != nil {
		return err
	}
	for _, kv := range specs {
		name, value, err := splitAssignment("specification", kv)
		if err != nil {
			return err
		}
		if err := form.SetSpecification(name, value); err != nil {
			return err
		}
	}

	features, err := fs.GetStringArray("feature")
	if err != nil {
		return err
	}
	for _, feature := range features {
		if err := form.SetFeature(form.AddFeature(), feature); err != nil {
			return err
		}
	}
	return nil
}

func splitAssignment(flag, kv string) (string, string, error) {
	name, value, ok := strings.Cut(kv, "=")
	if !ok || name == "" {
		return "", "", fmt.Errorf("--%s %q: expected name=value", flag, kv)
	}
	return name, value, nil
}

func runCatalogDelete(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid id %q", args[0])
	}

	client := newCatalogClient()
	defer client.Close()

	form := view.NewAdminForm(client)
	defer form.Close()
	if err := form.Delete(cmd.Context(), id); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted vehicle %d\n", id)
	return nil
}
