package cli

import (
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/propkeeper/internal/common"
	"github.com/dmitrijs2005/propkeeper/internal/models"
	"github.com/dmitrijs2005/propkeeper/internal/vault"
	"github.com/spf13/cobra"
)

func newDocCommand(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doc",
		Short: "Upload, list, preview and delete encrypted documents",
	}
	cmd.AddCommand(
		newDocUploadCommand(st),
		newDocListCommand(st),
		newDocDeleteCommand(st),
		newDocPreviewCommand(st),
		newDocTypesCommand(),
	)
	return cmd
}

func newDocUploadCommand(st *state) *cobra.Command {
	var name, docType, expiry string

	cmd := &cobra.Command{
		Use:   "upload <entity-type> <entity-id> <file>",
		Short: "Encrypt a file into an entity's folder",
		Example: `  propvault doc upload tenant 3 ~/scans/passport.pdf --name Passport --type ID
  propvault doc upload property 42 epc.pdf --type EPC --expiry 2026-01-01`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := st.App()
			t, id, err := parseEntity(args[0], args[1])
			if err != nil {
				return err
			}
			src := args[2]

			if err := vault.CheckUploadSize(src, a.config.MaxUploadSizeMB); err != nil {
				if errors.Is(err, common.ErrFileTooLarge) {
					failure(a.out, "%s is larger than %d MB", filepath.Base(src), a.config.MaxUploadSizeMB)
					return errReported
				}
				return err
			}

			if name == "" {
				name = filepath.Base(src)
			}
			if !models.IsKnownDocumentType(t, docType) {
				hint(a.out, "%s is not a usual %s document type (%s)", warnText(docType), t, strings.Join(models.DocumentTypes(t), ", "))
			}

			var exp *string
			if expiry != "" {
				exp = &expiry
			}

			stop := startSpinner(a.out, "Encrypting "+filepath.Base(src)+"...")
			ok := a.vault.Upload(cmd.Context(), vault.UploadRequest{
				EntityType: t,
				EntityID:   id,
				Name:       name,
				Type:       docType,
				ExpiryDate: exp,
				SourcePath: src,
			})
			if !ok {
				stop(failMark + " Upload failed")
				return errReported
			}
			stop(okMark + " Uploaded " + boldText(name) + " for " + fmt.Sprintf("%s %d", t, id))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "document name (default: file name)")
	cmd.Flags().StringVar(&docType, "type", "Other", "document type")
	cmd.Flags().StringVar(&expiry, "expiry", "", "expiry date, YYYY-MM-DD")
	return cmd
}

func newDocListCommand(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "list <entity-type> <entity-id>",
		Short: "List an entity's documents",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := st.App()
			t, id, err := parseEntity(args[0], args[1])
			if err != nil {
				return err
			}

			docs := a.vault.GetDocuments(cmd.Context(), t, id)
			if len(docs) == 0 {
				hint(a.out, "No documents for %s %d", t, id)
				return nil
			}

			tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTYPE\tNAME\tUPLOADED\tEXPIRY\tFILE")
			for _, d := range docs {
				exp := "-"
				if d.ExpiryDate != nil {
					exp = *d.ExpiryDate
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", d.ID, d.Type, d.Name, d.UploadedDate, exp, d.StoredFilename)
			}
			return tw.Flush()
		},
	}
}

func newDocDeleteCommand(st *state) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <entity-type> <entity-id> <stored-filename>",
		Short: "Delete a document and its encrypted file",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := st.App()
			t, id, err := parseEntity(args[0], args[1])
			if err != nil {
				return err
			}

			if !yes && !Confirm(a.reader, fmt.Sprintf("Delete %s from %s %d?", args[2], t, id), a.out) {
				hint(a.out, "Nothing deleted")
				return nil
			}

			if !a.vault.DeleteDocument(cmd.Context(), t, id, args[2]) {
				failure(a.out, "Could not delete %s", args[2])
				return errReported
			}
			success(a.out, "Deleted %s", args[2])
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

// openFile launches the platform viewer for path. Swapped in tests.
var openFile = func(path string) error {
	var c *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		c = exec.Command("open", path)
	case "windows":
		c = exec.Command("rundll32", "url.dll,FileProtocolHandler", path)
	default:
		c = exec.Command("xdg-open", path)
	}
	return c.Start()
}

func newDocPreviewCommand(st *state) *cobra.Command {
	var open, keep, hold bool

	cmd := &cobra.Command{
		Use:   "preview <entity-type> <entity-id> <stored-filename>",
		Short: "Decrypt a document into the preview directory",
		Long: `Decrypt a document into the shared preview directory.

On an interactive terminal the command waits for Enter and then removes the
plaintext. Use --keep to leave it in place until the next purge.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := st.App()
			t, id, err := parseEntity(args[0], args[1])
			if err != nil {
				return err
			}

			path := a.vault.DecryptToTemp(cmd.Context(), t, id, args[2])
			if path == "" {
				failure(a.out, "Could not open document %s", args[2])
				return errReported
			}

			success(a.out, "Decrypted to %s", pathText(path))

			if open {
				if err := openFile(path); err != nil {
					hint(a.out, "Could not start a viewer: %v", err)
				}
			}

			if keep {
				hint(a.out, "Plaintext stays until the next purge")
				return nil
			}

			a.vault.Preview().Register(path)
			if hold || stdinIsTerminal() {
				WaitForEnter(a.reader, "Press Enter when done viewing...", a.out)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&open, "open", false, "open the file with the system viewer")
	cmd.Flags().BoolVar(&keep, "keep", false, "do not remove the plaintext on exit")
	cmd.Flags().BoolVar(&hold, "hold", false, "wait for Enter before removing the plaintext")
	return cmd
}

func newDocTypesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "types <entity-type>",
		Short: "Show the usual document types for an entity type",
		Args:  cobra.ExactArgs(1),
		// no vault needed
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := models.ParseEntityType(args[0])
			if err != nil {
				return err
			}
			for _, v := range models.DocumentTypes(t) {
				fmt.Fprintln(cmd.OutOrStdout(), v)
			}
			return nil
		},
	}
}
