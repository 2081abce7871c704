package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newImageCommand(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "image",
		Short: "Manage property photos (stored unencrypted)",
	}

	add := &cobra.Command{
		Use:   "add <property-id> <file>...",
		Short: "Copy photos into a property's image folder",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := st.App()
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			failed := false
			for _, src := range args[1:] {
				img, err := a.images.Add(cmd.Context(), id, src)
				if err != nil {
					failure(a.out, "%s: %v", src, err)
					failed = true
					continue
				}
				success(a.out, "Added %s", pathText(img.Path))
			}
			if failed {
				return errReported
			}
			return nil
		},
	}

	list := &cobra.Command{
		Use:   "list <property-id>",
		Short: "List a property's photos",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := st.App()
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			imgs, err := a.images.List(cmd.Context(), id)
			if err != nil {
				return err
			}
			if len(imgs) == 0 {
				hint(a.out, "No images for property %d", id)
				return nil
			}
			tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tUPLOADED\tPATH")
			for _, img := range imgs {
				fmt.Fprintf(tw, "%d\t%s\t%s\n", img.ID, img.UploadedDate, img.Path)
			}
			return tw.Flush()
		},
	}

	del := &cobra.Command{
		Use:   "delete <property-id> <image-id>",
		Short: "Delete a photo and its file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := st.App()
			pid, err := parseID(args[0])
			if err != nil {
				return err
			}
			iid, err := parseID(args[1])
			if err != nil {
				return err
			}
			if err := a.images.Delete(cmd.Context(), pid, iid); err != nil {
				return err
			}
			success(a.out, "Deleted image %d", iid)
			return nil
		},
	}

	cmd.AddCommand(add, list, del)
	return cmd
}
