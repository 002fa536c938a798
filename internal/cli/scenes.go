package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/circlepack/pkg/scene"
)

// newScenesCmd creates the scenes command group for managing the scene
// store.
func newScenesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenes",
		Short: "Manage committed scenes",
	}

	cmd.AddCommand(newScenesListCmd())
	cmd.AddCommand(newScenesShowCmd())
	cmd.AddCommand(newScenesDeleteCmd())

	return cmd
}

// newScenesListCmd creates the scenes list command.
func newScenesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List committed scenes, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFromCommand(cmd)
			if err != nil {
				return err
			}
			st, err := openStore(cmd, cfg)
			if err != nil {
				return fmt.Errorf("opening store: %w", err)
			}
			defer st.Close(cmd.Context())

			scenes, err := st.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("listing scenes: %w", err)
			}
			if len(scenes) == 0 {
				printDetail("no scenes committed yet")
				return nil
			}

			rows := make([][]string, len(scenes))
			for i, sc := range scenes {
				status := iconRunning
				if sc.Converged {
					status = iconConverged
				}
				rows[i] = []string{
					sc.ID,
					sc.CreatedAt.Format("2006-01-02 15:04"),
					sc.Params.Algorithm,
					fmt.Sprintf("%d", len(sc.Circles)),
					fmt.Sprintf("%d", sc.Iterations),
					status,
				}
			}

			headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
			t := table.New().
				Border(lipgloss.RoundedBorder()).
				BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
				Headers("Scene", "Created", "Algorithm", "Circles", "Iterations", "Status").
				Rows(rows...).
				StyleFunc(func(row, col int) lipgloss.Style {
					if row == -1 {
						return headerStyle
					}
					switch col {
					case 0:
						return StyleNumber
					case 5:
						if scenes[row].Converged {
							return styleConverged
						}
						return styleRunning
					default:
						return StyleValue
					}
				})

			fmt.Println(t.Render())
			printDetail("%d scene(s)", len(scenes))
			return nil
		},
	}
}

// newScenesShowCmd creates the scenes show command.
func newScenesShowCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <scene-id>",
		Short: "Show a committed scene",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFromCommand(cmd)
			if err != nil {
				return err
			}
			st, err := openStore(cmd, cfg)
			if err != nil {
				return fmt.Errorf("opening store: %w", err)
			}
			defer st.Close(cmd.Context())

			sc, err := st.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if asJSON {
				data, err := scene.Marshal(sc)
				if err != nil {
					return err
				}
				_, err = os.Stdout.Write(append(data, '\n'))
				return err
			}

			fmt.Println(StyleTitle.Render("Scene " + sc.ID))
			printKeyValue("created", sc.CreatedAt.Format("2006-01-02 15:04:05"))
			printKeyValue("algorithm", sc.Params.Algorithm)
			printKeyValue("circles", fmt.Sprintf("%d", len(sc.Circles)))
			printKeyValue("radii", fmt.Sprintf("%g to %g", sc.Params.MinRadius, sc.Params.MaxRadius))
			printKeyValue("seed", fmt.Sprintf("%d", sc.Params.Seed))
			printKeyValue("iterations", fmt.Sprintf("%d", sc.Iterations))
			printKeyValue("converged", fmt.Sprintf("%t", sc.Converged))
			printKeyValue("bounds", fmt.Sprintf("%.2f × %.2f", sc.Bounds.Width(), sc.Bounds.Height()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw scene JSON")
	return cmd
}

// newScenesDeleteCmd creates the scenes delete command.
func newScenesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <scene-id>",
		Short: "Delete a committed scene",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFromCommand(cmd)
			if err != nil {
				return err
			}
			st, err := openStore(cmd, cfg)
			if err != nil {
				return fmt.Errorf("opening store: %w", err)
			}
			defer st.Close(cmd.Context())

			if err := st.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess("Deleted scene %s", StyleNumber.Render(args[0]))
			return nil
		},
	}
}
