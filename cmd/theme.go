package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leadgenius/prospect-cli/internal/theme"
)

var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Inspect or change the UI appearance preference",
}

var themeGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the resolved theme",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		value, err := theme.New(st, cfg.Theme.Default).Resolve(ctx)
		if err != nil {
			return err
		}
		fmt.Println(value)
		return nil
	},
}

var themeSetCmd = &cobra.Command{
	Use:   "set <dark|light>",
	Short: "Persist a theme preference",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		return theme.New(st, cfg.Theme.Default).Set(ctx, args[0])
	},
}

var themeToggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Flip the theme preference and print the new value",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		value, err := theme.New(st, cfg.Theme.Default).Toggle(ctx)
		if err != nil {
			return err
		}
		fmt.Println(value)
		return nil
	},
}

func init() {
	themeCmd.AddCommand(themeGetCmd, themeSetCmd, themeToggleCmd)
	rootCmd.AddCommand(themeCmd)
}
