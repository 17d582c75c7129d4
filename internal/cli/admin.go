package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/existflow/qazzerep/internal/admin"
	"github.com/existflow/qazzerep/internal/api"
	"github.com/existflow/qazzerep/internal/output"
	"github.com/existflow/qazzerep/internal/report"
	"github.com/spf13/cobra"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage stored documents (administrators only)",
}

var adminDocsCmd = &cobra.Command{
	Use:     "docs",
	Aliases: []string{"ls"},
	Short:   "List all stored documents",
	RunE:    runAdminDocs,
}

var adminDeleteCmd = &cobra.Command{
	Use:     "delete DOCUMENT_ID",
	Aliases: []string{"rm"},
	Short:   "Delete a stored document",
	Args:    cobra.ExactArgs(1),
	RunE:    runAdminDelete,
}

var adminForce bool

func init() {
	adminCmd.AddCommand(adminDocsCmd)
	adminCmd.AddCommand(adminDeleteCmd)

	adminDeleteCmd.Flags().BoolVarP(&adminForce, "force", "f", false, "Skip confirmation")
}

// openAdmin opens the app and applies the admin route guard
func openAdmin(cmd *cobra.Command) (*app, error) {
	a, err := openApp(cmd.Context(), true)
	if err != nil {
		return nil, err
	}
	if err := a.authorize("/admin"); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func runAdminDocs(cmd *cobra.Command, args []string) error {
	a, err := openAdmin(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	docs, err := admin.List(cmd.Context(), a.client)
	if err != nil {
		return fmt.Errorf("failed to load documents: %s", api.Message(err))
	}
	if len(docs) == 0 {
		out.Print("%s", a.tr.T("admin.empty"))
		return nil
	}

	table := output.NewTable(out.Out(), []string{"Node", a.tr.T("admin.owner"), a.tr.T("admin.hashes"), "ID"})
	for _, d := range docs {
		table.AddRow(report.NodeID(d.ID), d.Owner, strconv.Itoa(d.HashCount), d.ID)
	}
	return table.Render()
}

func runAdminDelete(cmd *cobra.Command, args []string) error {
	a, err := openAdmin(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	err = admin.Delete(cmd.Context(), a.client, args[0], confirmer(adminForce), a.tr.T("admin.confirm_delete"))
	if errors.Is(err, admin.ErrCancelled) {
		out.Print("Cancelled.")
		return nil
	}
	if err != nil {
		return errors.New(api.Message(err))
	}
	out.Success("%s: %s", a.tr.T("admin.deleted"), report.NodeID(args[0]))
	return nil
}
