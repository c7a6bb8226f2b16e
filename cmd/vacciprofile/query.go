package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"vacciprofile/internal/catalog"
	"vacciprofile/internal/filter"
	"vacciprofile/internal/observability"
	"vacciprofile/pkg/domain"
)

func newQueryCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Run one catalogue lookup and print JSON",
	}
	cmd.AddCommand(
		c.queryManufacturersCmd(),
		c.queryVaccineCmd(),
		c.queryAccreditationCmd(),
	)
	return cmd
}

// withCatalog loads the catalogue and passes it to fn.
func (c *cli) withCatalog(cmd *cobra.Command, fn func(*catalog.Catalog) (any, error)) error {
	cat, d, _, err := c.loadCatalog(cmd.Context(), observability.NopRecorder{})
	if err != nil {
		return err
	}
	defer func() { _ = d.Close() }()
	out, err := fn(cat)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func (c *cli) queryManufacturersCmd() *cobra.Command {
	var st filter.State
	cmd := &cobra.Command{
		Use:   "manufacturers",
		Short: "List manufacturers matching a keyword and first letter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if st.Letter != "" && !filter.ValidLetter(st.Letter) {
				return domain.ErrInvalidLetter
			}
			return c.withCatalog(cmd, func(cat *catalog.Catalog) (any, error) {
				return map[string]any{"manufacturers": filter.Apply(cat.Manufacturers(), st)}, nil
			})
		},
	}
	cmd.Flags().StringVarP(&st.Keyword, "keyword", "k", "", "case-insensitive match on name or description")
	cmd.Flags().StringVarP(&st.Letter, "letter", "l", "", "first letter of the name, A-Z")
	return cmd
}

func (c *cli) queryVaccineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vaccine <vaccineId>",
		Short: "Show a vaccine with its virus, manufacturer and countries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withCatalog(cmd, func(cat *catalog.Catalog) (any, error) {
				vx, err := cat.VaccineByID(args[0])
				if err != nil {
					return nil, err
				}
				out := map[string]any{"vaccine": vx}
				// Unresolved references leave their key out.
				if virus, err := cat.VirusByVaccine(vx); err == nil {
					out["virus"] = virus
				} else if !domain.IsNotFound(err) {
					return nil, err
				}
				if m, err := cat.ManufacturerByID(vx.ManufacturerID); err == nil {
					out["manufacturer"] = m
				}
				if countries, err := cat.CountriesByVaccine(vx.Ref()); err == nil {
					out["countries"] = countries
				}
				return out, nil
			})
		},
	}
}

func (c *cli) queryAccreditationCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "accreditation [tag]",
		Short: "List accreditation tags, or the vaccines carrying one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withCatalog(cmd, func(cat *catalog.Catalog) (any, error) {
				if len(args) == 0 {
					return map[string]any{"accreditations": cat.Accreditations()}, nil
				}
				vaccines := cat.VaccinesByAccreditation(args[0])
				if len(vaccines) == 0 {
					return nil, fmt.Errorf("no vaccine carries accreditation %q", args[0])
				}
				return map[string]any{"tag": args[0], "vaccines": vaccines}, nil
			})
		},
	}
}
