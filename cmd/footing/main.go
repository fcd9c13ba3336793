package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func newRootCmd(fs afero.Fs) *cobra.Command {
	root := &cobra.Command{
		Use:   "footing",
		Short: "Isolated spread footing designer",
		Long: `footing - isolated spread footing designer

Sizes a square pad footing under a rectangular column and details its
bottom reinforcement. Bearing follows Terzaghi's capacity factors with
FS = 3, shear and bending follow EC2 with EC7 load factors.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.AddCommand(newDesignCmd(fs), newVersionCmd())
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd(afero.NewOsFs()).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
