package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/devrev/crmstore/internal/model"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var configPath, seedPath string

	root := &cobra.Command{
		Use:           "crmstore",
		Short:         "Inspect and query in-memory CRM entity stores",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to the YAML config (defaults to $CONFIG_PATH)")
	root.PersistentFlags().StringVar(&seedPath, "seed", "", "fixture to load, overrides seed.path")

	root.AddCommand(newCheckCmd(&configPath, &seedPath))
	root.AddCommand(newSearchCmd(&configPath, &seedPath))
	return root
}

// newCheckCmd seeds the stores and verifies every secondary index against
// the primary maps
func newCheckCmd(configPath, seedPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Seed the stores and verify index consistency",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath, *seedPath)
			if err != nil {
				return err
			}

			report := a.checker.Run()
			out := cmd.OutOrStdout()
			for _, c := range report.Checks {
				fmt.Fprintf(out, "%-20s %-9s %s\n", c.Name, c.Status, c.Message)
				for _, inc := range c.Inconsistencies {
					fmt.Fprintf(out, "  %s %s in %s\n", inc.Reason, inc.EntityID, inc.Index)
				}
			}
			fmt.Fprintf(out, "status: %s\n", report.Status)

			if err := a.close(); err != nil {
				return err
			}
			if a.cfg.Consistency.FailOnInconsistency && report.Status != model.HealthStatusHealthy {
				return fmt.Errorf("consistency check failed: %d inconsistencies", report.Inconsistencies())
			}
			return nil
		},
	}
}

// searchKinds lists the accepted --kind values
var searchKinds = []string{
	"company", "deal", "task", "interaction",
	string(model.PersonKindClient), string(model.PersonKindInternalEmployee), string(model.PersonKindExternalEmployee),
}

func newSearchCmd(configPath, seedPath *string) *cobra.Command {
	var kind, prefix, field string

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Find entities whose name, title or subject starts with a prefix",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath, *seedPath)
			if err != nil {
				return err
			}
			if err := search(a, cmd.OutOrStdout(), kind, field, prefix); err != nil {
				return err
			}
			return a.close()
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "deal", "entity kind: "+strings.Join(searchKinds, ", "))
	cmd.Flags().StringVar(&prefix, "prefix", "", "case-insensitive prefix")
	cmd.Flags().StringVar(&field, "field", "name", "person field: name, surname, email or phone")
	return cmd
}

func search(a *app, out io.Writer, kind, field, prefix string) error {
	crm := a.crm
	switch kind {
	case "company":
		for _, c := range crm.Companies.FindByName(prefix) {
			fmt.Fprintf(out, "%s\t%s\n", c.EntityID(), c.Name())
		}
	case "deal":
		for _, d := range crm.Deals.FindByTitle(prefix) {
			fmt.Fprintf(out, "%s\t%s\t%s\t%s\n", d.EntityID(), d.Title(), d.Status(), d.TotalAmount())
		}
	case "task":
		for _, t := range crm.Tasks.FindByTitle(prefix) {
			fmt.Fprintf(out, "%s\t%s\t%s\n", t.EntityID(), t.Title(), t.Status())
		}
	case "interaction":
		for _, in := range crm.Interactions.FindBySubject(prefix) {
			fmt.Fprintf(out, "%s\t%s\t%s\n", in.EntityID(), in.Subject(), in.Type())
		}
	case string(model.PersonKindClient), string(model.PersonKindInternalEmployee), string(model.PersonKindExternalEmployee):
		svc := crm.Clients
		switch model.PersonKind(kind) {
		case model.PersonKindInternalEmployee:
			svc = crm.InternalEmployees
		case model.PersonKindExternalEmployee:
			svc = crm.ExternalEmployees
		}

		var found []*model.Person
		switch field {
		case "name":
			found = svc.FindByName(prefix)
		case "surname":
			found = svc.FindBySurname(prefix)
		case "email":
			found = svc.FindByEmail(prefix)
		case "phone":
			found = svc.FindByPhone(prefix)
		default:
			return fmt.Errorf("unknown person field %q", field)
		}
		for _, p := range found {
			fmt.Fprintf(out, "%s\t%s\t%s\n", p.EntityID(), p.FullName(), p.Email())
		}
	default:
		return fmt.Errorf("unknown kind %q, want one of %s", kind, strings.Join(searchKinds, ", "))
	}
	return nil
}
