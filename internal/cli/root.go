// Package cli implements the flashpulse command line client.
package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vytor/flashpulse/internal/apiclient"
	"github.com/vytor/flashpulse/internal/cache"
	"github.com/vytor/flashpulse/internal/config"
	"github.com/vytor/flashpulse/internal/quiz"
)

// app carries what every command needs.
type app struct {
	cfg    config.Config
	client apiclient.ClientInterface

	// quizOpts is appended to the engine options; tests use it to slow the
	// countdown down.
	quizOpts []quiz.Option
}

// NewRootCmd creates the root command for flashpulse.
func NewRootCmd(cfg config.Config, client apiclient.ClientInterface) *cobra.Command {
	return newRootCmd(&app{cfg: cfg, client: client})
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "flashpulse",
		Short: "Study flashcard decks from the terminal",
		Long: `Create and edit flashcard decks and quiz yourself on them.

Decks are kept by the flashpulse server; set FLASHPULSE_API_URL to point
at it.`,
		SilenceUsage: true,
	}

	root.AddCommand(newListCmd(a))
	root.AddCommand(newShowCmd(a))
	root.AddCommand(newCreateCmd(a))
	root.AddCommand(newEditCmd(a))
	root.AddCommand(newDeleteCmd(a))
	root.AddCommand(newQuizCmd(a))

	return root
}

// openCache loads the deck collection. Callers must Close the cache so that
// background pushes finish before the process exits.
func (a *app) openCache(cmd *cobra.Command) (*cache.Cache, error) {
	c := cache.New(a.client,
		cache.WithQueueSize(a.cfg.PushQueueSize),
		cache.WithPersistErrorHandler(func(err error) {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: changes were not saved: %v\n", err)
		}),
	)
	if err := c.Load(cmd.Context()); err != nil {
		c.Close()
		return nil, fmt.Errorf("load decks: %w", err)
	}
	return c, nil
}

func (a *app) cardDuration() time.Duration {
	return time.Duration(a.cfg.QuizCardSeconds) * time.Second
}
