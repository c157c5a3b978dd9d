package cli

import (
	"bufio"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vytor/flashpulse/internal/models"
	"github.com/vytor/flashpulse/internal/quiz"
)

const quizHelp = "Commands: Enter or f to flip, y if you knew it, n if you did not, q to quit."

func newQuizCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quiz <deck-id>",
		Short: "Quiz yourself on a deck",
		Long: `Show each card's front with a countdown. Flip it to see the back, then
say whether you knew it. When time runs out the card flips by itself.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.openCache(cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			d, err := c.Get(args[0])
			if err != nil {
				return err
			}

			opts := append([]quiz.Option{quiz.WithCardDuration(a.cardDuration())}, a.quizOpts...)
			_, _, err = runQuiz(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), d, opts...)
			return err
		},
	}
	return cmd
}

// runQuiz drives one session from line-based input. It returns the summary
// and true when every card was graded, or false when the user quit early.
func runQuiz(ctx context.Context, in io.Reader, out io.Writer, deck models.Deck, opts ...quiz.Option) (quiz.Summary, bool, error) {
	updates := make(chan quiz.Snapshot, 64)
	opts = append(opts[:len(opts):len(opts)], quiz.WithListener(func(s quiz.Snapshot) {
		select {
		case updates <- s:
		default:
		}
	}))

	eng, err := quiz.New(deck, opts...)
	if err != nil {
		return quiz.Summary{}, false, err
	}
	defer eng.Exit()

	done := make(chan struct{})
	defer close(done)
	lines := readLines(in, done)

	fmt.Fprintf(out, "Quiz: %s (%d cards)\n%s\n", deck.Title, deck.CardCount(), quizHelp)
	shown := eng.Snapshot()
	renderFront(out, shown)

	for {
		select {
		case <-ctx.Done():
			return quiz.Summary{}, false, ctx.Err()

		case s := <-updates:
			// Only a countdown reaching zero needs rendering here; every other
			// change was caused by input and is rendered below.
			if s.Phase == quiz.Active && s.Index == shown.Index && s.Flipped && !shown.Flipped && s.TimeLeft == 0 {
				fmt.Fprintln(out, "Time's up!")
				renderBack(out, s)
				shown = s
			}

		case line, ok := <-lines:
			if !ok {
				fmt.Fprintln(out, "Quiz ended.")
				return quiz.Summary{}, false, nil
			}
			switch strings.ToLower(line) {
			case "q", "quit":
				fmt.Fprintln(out, "Quiz ended.")
				return quiz.Summary{}, false, nil

			case "", "f":
				if err := eng.Flip(); err != nil {
					return quiz.Summary{}, false, err
				}
				shown = eng.Snapshot()
				if shown.Flipped {
					renderBack(out, shown)
				} else {
					renderFront(out, shown)
				}

			case "y", "n":
				err := eng.Grade(line == "y")
				if stderrors.Is(err, quiz.ErrNotRevealed) {
					fmt.Fprintln(out, "Flip the card first.")
					continue
				}
				if err != nil {
					return quiz.Summary{}, false, err
				}
				shown = eng.Snapshot()
				if shown.Phase == quiz.Complete {
					sum, err := eng.Summary()
					if err != nil {
						return quiz.Summary{}, false, err
					}
					renderSummary(out, sum)
					return sum, true, nil
				}
				renderFront(out, shown)

			default:
				fmt.Fprintln(out, quizHelp)
			}
		}
	}
}

// readLines feeds trimmed input lines into the returned channel until EOF or
// until done is closed. A Scan already blocked on in cannot be interrupted, so
// after done closes the goroutine lingers until the next line or EOF arrives,
// then exits without sending. For the quiz command in is stdin and the process
// exits with the session, so nothing outlives it in practice.
func readLines(in io.Reader, done <-chan struct{}) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case <-done:
				return
			default:
			}
			select {
			case lines <- strings.TrimSpace(sc.Text()):
			case <-done:
				return
			}
		}
	}()
	return lines
}

func renderFront(out io.Writer, s quiz.Snapshot) {
	timer := fmt.Sprintf("%ds", s.TimeLeft)
	if !s.Ticking {
		timer = "stopped"
	}
	fmt.Fprintf(out, "\n[%d/%d] %s  (%s)\n", s.Index+1, s.Total, s.Card.Front, timer)
}

func renderBack(out io.Writer, s quiz.Snapshot) {
	fmt.Fprintf(out, "  -> %s\nDid you know it? [y/n] ", s.Card.Back)
}

func renderSummary(out io.Writer, sum quiz.Summary) {
	fmt.Fprintf(out, "\nQuiz complete: %s\n", sum.DeckTitle)
	fmt.Fprintf(out, "  Correct:   %d\n", sum.Correct)
	fmt.Fprintf(out, "  Incorrect: %d\n", sum.Incorrect)
	fmt.Fprintf(out, "  Accuracy:  %d%%\n", sum.Accuracy)
}
