package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/dmitrijs2005/propkeeper/internal/models"
	"github.com/spf13/cobra"
)

func newInitCommand(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create storage folders, the database and the encryption key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := st.App()
			success(a.out, "Vault ready")
			for _, t := range models.EntityTypes {
				p, _ := a.config.StoragePath(t)
				hint(a.out, "%-9s %s", t, pathText(p))
			}
			hint(a.out, "key       %s", pathText(a.keys.Path()))
			fmt.Fprintln(a.out, warnText("Back up the key file: documents cannot be decrypted without it."))
			return nil
		},
	}
}

func newPreviewCommand(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Manage the decrypted preview directory",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "purge",
		Short: "Remove every decrypted preview",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := st.App()
			n := a.vault.PurgePreviews(cmd.Context())
			success(a.out, "Removed %d preview file(s) from %s", n, pathText(a.vault.Preview().Dir()))
			return nil
		},
	})
	return cmd
}

func newKeyCommand(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Encryption key information",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the key file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := st.App()
			fmt.Fprintln(a.out, a.keys.Path())
			return nil
		},
	})
	return cmd
}

func newBackupCommand(st *state) *cobra.Command {
	var mirror bool

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Snapshot the database and optionally mirror ciphertext to S3",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := st.App()
			ctx := cmd.Context()

			if mirror && !a.config.S3Enabled() {
				failure(a.out, "No S3 bucket configured")
				hint(a.out, "Set --s3-bucket or PROPVAULT_S3_BUCKET")
				return errReported
			}

			svc, err := a.backupService(ctx, mirror)
			if err != nil {
				return err
			}

			stop := startSpinner(a.out, "Writing snapshot...")
			snapshot, err := svc.Snapshot(ctx)
			if err != nil {
				stop("")
				return err
			}
			stop(okMark + " Snapshot " + pathText(snapshot))

			if !mirror {
				return nil
			}

			stop = startSpinner(a.out, "Uploading to "+a.config.S3Bucket+"...")
			rep, err := svc.Mirror(ctx, snapshot)
			if err != nil {
				stop("")
				return err
			}
			stop(fmt.Sprintf("%s Mirrored %d object(s), %d bytes to s3://%s/%s", okMark, rep.Objects, rep.Bytes, a.config.S3Bucket, rep.Prefix))
			return nil
		},
	}
	cmd.Flags().BoolVar(&mirror, "mirror", false, "upload the snapshot and encrypted documents to S3")
	return cmd
}

func newLogCommand(st *state) *cobra.Command {
	var n int

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show recent vault activity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := st.App()
			entries, err := a.activity.Recent(cmd.Context(), n)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "TIME\tUSER\tACTION\tDETAILS")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Timestamp, e.User, e.Action, e.Details)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVarP(&n, "number", "n", 20, "number of entries")
	return cmd
}
