package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/propkeeper/internal/dbx"
	"github.com/dmitrijs2005/propkeeper/internal/models"
	"github.com/dmitrijs2005/propkeeper/internal/repositories/entities"
	"github.com/spf13/cobra"
)

func newEntityCommand(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entity",
		Short: "Manage the records documents attach to",
	}

	add := &cobra.Command{Use: "add", Short: "Create a tenant, landlord, property or tenancy"}
	add.AddCommand(
		newPersonCommand(st, models.EntityTenant),
		newPersonCommand(st, models.EntityLandlord),
		newPropertyCommand(st),
		newTenancyCommand(st),
	)

	cmd.AddCommand(add, newEntityFolderCommand(st), newEntityDeleteCommand(st))
	return cmd
}

func newPersonCommand(st *state, t models.EntityType) *cobra.Command {
	var first, last, email, phone string

	cmd := &cobra.Command{
		Use:   string(t),
		Short: "Create a " + string(t),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := st.App()
			var (
				id  int64
				err error
			)
			if t == models.EntityTenant {
				id, err = a.entities.CreateTenant(cmd.Context(), &models.Tenant{FirstName: first, LastName: last, Email: email, Phone: phone})
			} else {
				id, err = a.entities.CreateLandlord(cmd.Context(), &models.Landlord{FirstName: first, LastName: last, Email: email, Phone: phone})
			}
			if err != nil {
				return err
			}
			success(a.out, "Created %s %d", t, id)
			return nil
		},
	}
	cmd.Flags().StringVar(&first, "first", "", "first name")
	cmd.Flags().StringVar(&last, "last", "", "last name")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&phone, "phone", "", "phone number")
	_ = cmd.MarkFlagRequired("first")
	_ = cmd.MarkFlagRequired("last")
	return cmd
}

func newPropertyCommand(st *state) *cobra.Command {
	var door, street, postcode, city string
	var landlord int64

	cmd := &cobra.Command{
		Use:   "property",
		Short: "Create a property",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := st.App()
			p := &models.Property{DoorNumber: door, Street: street, Postcode: postcode, City: city}
			if landlord > 0 {
				p.LandlordID = &landlord
			}
			id, err := a.entities.CreateProperty(cmd.Context(), p)
			if err != nil {
				return err
			}
			success(a.out, "Created property %d", id)
			return nil
		},
	}
	cmd.Flags().StringVar(&door, "door", "", "door number")
	cmd.Flags().StringVar(&street, "street", "", "street")
	cmd.Flags().StringVar(&postcode, "postcode", "", "postcode")
	cmd.Flags().StringVar(&city, "city", "", "city")
	cmd.Flags().Int64Var(&landlord, "landlord", 0, "landlord id")
	_ = cmd.MarkFlagRequired("door")
	_ = cmd.MarkFlagRequired("street")
	_ = cmd.MarkFlagRequired("postcode")
	return cmd
}

func newTenancyCommand(st *state) *cobra.Command {
	var property int64
	var start, end string
	var tenants []int64

	cmd := &cobra.Command{
		Use:   "tenancy",
		Short: "Create a tenancy linking tenants to a property",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := st.App()
			tn := &models.Tenancy{PropertyID: property, StartDate: start, EndDate: end, TenantIDs: tenants}

			err := dbx.WithTx(cmd.Context(), a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
				_, err := entities.NewSQLRepository(dbx.Bind(tx, a.dialect)).CreateTenancy(ctx, tn)
				return err
			})
			if err != nil {
				return err
			}
			success(a.out, "Created tenancy %d", tn.ID)
			return nil
		},
	}
	cmd.Flags().Int64Var(&property, "property", 0, "property id")
	cmd.Flags().StringVar(&start, "start", "", "start date, YYYY-MM-DD")
	cmd.Flags().StringVar(&end, "end", "", "end date, YYYY-MM-DD")
	cmd.Flags().Int64SliceVar(&tenants, "tenant", nil, "tenant id (repeatable)")
	_ = cmd.MarkFlagRequired("property")
	_ = cmd.MarkFlagRequired("start")
	return cmd
}

func newEntityFolderCommand(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "folder <entity-type> <entity-id>",
		Short: "Show where an entity's documents are stored",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := st.App()
			t, id, err := parseEntity(args[0], args[1])
			if err != nil {
				return err
			}
			dir, err := a.vault.Store().EntityDir(cmd.Context(), t, id)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, dir)
			return nil
		},
	}
}

func newEntityDeleteCommand(st *state) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <entity-type> <entity-id>",
		Short: "Delete an entity with all of its documents and images",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := st.App()
			ctx := cmd.Context()
			t, id, err := parseEntity(args[0], args[1])
			if err != nil {
				return err
			}

			if !yes && !Confirm(a.reader, fmt.Sprintf("Delete %s %d and all of its documents?", t, id), a.out) {
				hint(a.out, "Nothing deleted")
				return nil
			}

			if !a.vault.DeleteEntityDocuments(ctx, t, id) {
				failure(a.out, "Could not remove documents of %s %d", t, id)
				return errReported
			}

			if t == models.EntityProperty {
				imgs, err := a.images.List(ctx, id)
				if err != nil {
					return err
				}
				for _, img := range imgs {
					if err := a.images.Delete(ctx, id, img.ID); err != nil {
						return err
					}
				}
			}

			n, err := a.entities.Delete(ctx, t, id)
			if err != nil {
				return err
			}
			if n == 0 {
				hint(a.out, "%s %d did not exist", t, id)
				return nil
			}
			success(a.out, "Deleted %s %d", t, id)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}
