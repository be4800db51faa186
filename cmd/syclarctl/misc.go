package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/2beens/syclar/internal/ledger"
	"github.com/2beens/syclar/pkg"

	"github.com/spf13/cobra"
)

func dbPasswordFromEnv() string {
	return os.Getenv("SYCLAR_DB_PASSWORD")
}

func newHashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password [PASSWORD]",
		Short: "Print the bcrypt hash of a password, read from stdin when not given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var password string
			if len(args) == 1 {
				password = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}
			if password == "" {
				return errors.New("empty password")
			}

			hash, err := pkg.HashPassword(password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Achievement catalog tools",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "validate [PATH]",
		Short: "Check an achievement catalog file, the built-in one when no path is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog := ledger.DefaultCatalog()
			source := "built-in catalog"
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()

				if catalog, err = ledger.LoadCatalog(f); err != nil {
					return err
				}
				source = args[0]
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d achievements\n", source, len(catalog))
			for _, a := range catalog {
				fmt.Fprintf(out, "  %-24s %-22s target %d\n", a.ID, a.Metric, a.Target)
			}
			return nil
		},
	})
	return cmd
}
