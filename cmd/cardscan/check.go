package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ericlevine/libcodabar/card"
	"github.com/ericlevine/libcodabar/oned"
)

func newCheckCmd() *cobra.Command {
	var showCard bool

	cmd := &cobra.Command{
		Use:   "check <digits> [digits...]",
		Short: "Compute or verify library card check digits",
		Long: `Compute or verify library card check digits.

Thirteen digits print the full payload with its check digit; fourteen digits
are verified. The command fails if any argument is invalid.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bad := 0
			for _, arg := range args {
				line, err := checkPayload(normalizeDigits(arg), showCard)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", arg, err)
					bad++
					continue
				}
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			if bad > 0 {
				return fmt.Errorf("%d of %d payloads invalid", bad, len(args))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showCard, "card", false, "also print the card kind, institution and serial")
	return cmd
}

func checkPayload(digits string, showCard bool) (string, error) {
	payload, err := oned.LibraryCodabarPayload(digits)
	if err != nil {
		if len(digits) == 14 {
			if want, ok := oned.LibraryCodabarCheckDigit(digits[:13]); ok {
				return "", fmt.Errorf("check digit is %c, want %c", digits[13], want)
			}
		}
		return "", err
	}
	if !showCard {
		return payload, nil
	}
	id, err := card.Parse(payload)
	if err != nil {
		return "", err
	}
	return payload + " " + id.String(), nil
}
