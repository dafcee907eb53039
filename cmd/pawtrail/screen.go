package main

import (
	"github.com/aretw0/pawtrail/internal/cli"
	"github.com/aretw0/pawtrail/pkg/domain"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Show the current screen of a session",
	Long:  `Restores the session and prints its screen. Unknown sessions start on Home.`,
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, app *cli.App, args []string) error {
		return app.Show(cmd.Context(), screenOutput(cmd), args[0])
	}),
}

var openCmd = &cobra.Command{
	Use:   "open <session-id>",
	Short: "Open a dog's detail screen",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, app *cli.App, args []string) error {
		flags := cmd.Flags()
		var dog domain.Dog
		dog.ID, _ = flags.GetInt64("dog-id")
		dog.Name, _ = flags.GetString("name")
		dog.Breed, _ = flags.GetString("breed")
		dog.Age, _ = flags.GetInt64("age")
		dog.Gender, _ = flags.GetString("gender")
		dog.Description, _ = flags.GetString("description")
		dog.ImageURL, _ = flags.GetString("image")

		return app.Open(cmd.Context(), screenOutput(cmd), args[0], dog)
	}),
}

var homeCmd = &cobra.Command{
	Use:   "home <session-id>",
	Short: "Navigate a session to Home",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, app *cli.App, args []string) error {
		return app.Home(cmd.Context(), screenOutput(cmd), args[0])
	}),
}

var backCmd = &cobra.Command{
	Use:   "back <session-id>",
	Short: "Go back to Home",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, app *cli.App, args []string) error {
		return app.Back(cmd.Context(), screenOutput(cmd), args[0])
	}),
}

func init() {
	for _, c := range []*cobra.Command{showCmd, openCmd, homeCmd, backCmd} {
		c.Flags().Bool("plain", false, "Disable colors and markdown rendering")
		rootCmd.AddCommand(c)
	}

	openCmd.Flags().Int64("dog-id", 0, "Dog id")
	openCmd.Flags().String("name", "", "Dog name")
	openCmd.Flags().String("breed", "", "Dog breed")
	openCmd.Flags().Int64("age", 0, "Dog age in years")
	openCmd.Flags().String("gender", "", "Dog gender")
	openCmd.Flags().String("description", "", "Markdown description")
	openCmd.Flags().String("image", "", "Image URL")
	_ = openCmd.MarkFlagRequired("dog-id")
	_ = openCmd.MarkFlagRequired("name")
}
