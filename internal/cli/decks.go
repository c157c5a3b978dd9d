package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vytor/flashpulse/internal/editor"
	"github.com/vytor/flashpulse/internal/models"
)

func newListCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List decks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.openCache(cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			decks := c.Decks()
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, decks)
			}
			if len(decks) == 0 {
				fmt.Fprintln(out, "No decks yet. Create one with 'flashpulse create'.")
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTITLE\tCARDS\tCOLOR")
			for _, d := range decks {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", d.ID, truncate(d.Title, 40), d.CardCount(), d.Color)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "\nTotal: %d deck(s)\n", len(decks))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print decks as JSON")
	return cmd
}

func newShowCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <deck-id>",
		Short: "Show a deck and its cards",
		Args:  cobra.ExactArgs(1),
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
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, d)
			}

			fmt.Fprintf(out, "%s (%s)\n", d.Title, d.ID)
			if d.Description != "" {
				fmt.Fprintln(out, d.Description)
			}
			fmt.Fprintf(out, "%d card(s)\n\n", d.CardCount())
			for i, card := range d.Cards {
				fmt.Fprintf(out, "%3d. %s\n     %s\n", i+1, card.Front, card.Back)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the deck as JSON")
	return cmd
}

func newCreateCmd(a *app) *cobra.Command {
	var (
		title       string
		description string
		color       string
		cards       []string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a deck",
		Example: `  flashpulse create --title "Capitals" \
    --card "France|Paris" --card "Spain|Madrid"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.openCache(cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			s := editor.New(nil)
			if err := s.SetTitle(title); err != nil {
				return err
			}
			if err := s.SetDescription(description); err != nil {
				return err
			}
			if color != "" {
				if err := s.SetColor(color); err != nil {
					return err
				}
			}
			if err := addCards(s, cards); err != nil {
				return err
			}

			deck, err := s.Commit()
			if err != nil {
				return err
			}
			c.Save(deck)
			fmt.Fprintf(cmd.OutOrStdout(), "Created deck %q (%s) with %d card(s)\n", deck.Title, deck.ID, deck.CardCount())
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Deck title (required)")
	cmd.Flags().StringVar(&description, "description", "", "Deck description")
	cmd.Flags().StringVar(&color, "color", "", "Deck color, one of: "+strings.Join(models.Palette(), ", "))
	cmd.Flags().StringArrayVar(&cards, "card", nil, `Card as "front|back" (repeatable)`)
	return cmd
}

func newEditCmd(a *app) *cobra.Command {
	var (
		title       string
		description string
		color       string
		addCard     []string
		removeCard  []string
		setFront    []string
		setBack     []string
	)

	cmd := &cobra.Command{
		Use:   "edit <deck-id>",
		Short: "Edit a deck",
		Example: `  flashpulse edit 3f2a --title "World capitals" --add-card "Peru|Lima"
  flashpulse edit 3f2a --set-back "<card-id>=Lisbon" --remove-card <card-id>`,
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

			s := editor.New(&d)
			flags := cmd.Flags()
			if flags.Changed("title") {
				if err := s.SetTitle(title); err != nil {
					return err
				}
			}
			if flags.Changed("description") {
				if err := s.SetDescription(description); err != nil {
					return err
				}
			}
			if flags.Changed("color") {
				if err := s.SetColor(color); err != nil {
					return err
				}
			}
			if err := setFaces(s, editor.FieldFront, setFront); err != nil {
				return err
			}
			if err := setFaces(s, editor.FieldBack, setBack); err != nil {
				return err
			}
			for _, id := range removeCard {
				if err := s.RemoveCard(id); err != nil {
					return err
				}
			}
			if err := addCards(s, addCard); err != nil {
				return err
			}

			deck, err := s.Commit()
			if err != nil {
				return err
			}
			c.Save(deck)
			fmt.Fprintf(cmd.OutOrStdout(), "Updated deck %q (%d card(s))\n", deck.Title, deck.CardCount())
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&description, "description", "", "New description")
	cmd.Flags().StringVar(&color, "color", "", "New color")
	cmd.Flags().StringArrayVar(&addCard, "add-card", nil, `Append a card as "front|back" (repeatable)`)
	cmd.Flags().StringArrayVar(&removeCard, "remove-card", nil, "Remove the card with this id (repeatable)")
	cmd.Flags().StringArrayVar(&setFront, "set-front", nil, `Replace a card front as "<card-id>=text" (repeatable)`)
	cmd.Flags().StringArrayVar(&setBack, "set-back", nil, `Replace a card back as "<card-id>=text" (repeatable)`)
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <deck-id>",
		Short: "Delete a deck",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.openCache(cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			pending, err := c.RequestDelete(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !yes && !confirm(cmd.InOrStdin(), out, pending.Prompt()) {
				fmt.Fprintln(out, "Cancelled.")
				return pending.Cancel()
			}
			if err := pending.Confirm(); err != nil {
				return err
			}
			fmt.Fprintf(out, "Deleted deck %s\n", pending.DeckID())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

// addCards appends one card per "front|back" value.
func addCards(s *editor.Session, values []string) error {
	for _, v := range values {
		front, back, ok := strings.Cut(v, "|")
		if !ok {
			return fmt.Errorf("invalid card %q: want \"front|back\"", v)
		}
		card, err := s.AddCard()
		if err != nil {
			return err
		}
		if err := s.UpdateCard(card.ID, editor.FieldFront, strings.TrimSpace(front)); err != nil {
			return err
		}
		if err := s.UpdateCard(card.ID, editor.FieldBack, strings.TrimSpace(back)); err != nil {
			return err
		}
	}
	return nil
}

func setFaces(s *editor.Session, field editor.Field, values []string) error {
	for _, v := range values {
		id, text, ok := strings.Cut(v, "=")
		if !ok || id == "" {
			return fmt.Errorf("invalid --set-%s %q: want \"<card-id>=text\"", field, v)
		}
		if err := s.UpdateCard(id, field, text); err != nil {
			return err
		}
	}
	return nil
}

func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprintf(out, "%s [y/N] ", prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(out)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
