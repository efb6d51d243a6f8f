package main

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	libcodabar "github.com/ericlevine/libcodabar"
	"github.com/ericlevine/libcodabar/internal/config"
	"github.com/ericlevine/libcodabar/oned"
)

const labelGap = 3

func newEncodeCmd(a *app) *cobra.Command {
	var (
		output string
		narrow int
		wide   int
		height int
		margin int
		label  bool
	)

	cmd := &cobra.Command{
		Use:   "encode <digits>",
		Short: "Render a library card barcode as PNG",
		Long: `Render a library card barcode as PNG.

The argument is the 13 data digits (the check digit is appended) or all 14
digits, optionally wrapped in start/stop characters such as A...A.
Full-width digits and spaces are accepted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := a.cfg.Encode
			if cmd.Flags().Changed("narrow") {
				opts.Narrow = narrow
			}
			if cmd.Flags().Changed("wide") {
				opts.Wide = wide
			}
			if cmd.Flags().Changed("height") {
				opts.Height = height
			}
			if cmd.Flags().Changed("margin") {
				opts.Margin = margin
			}
			if cmd.Flags().Changed("label") {
				opts.Label = label
			}

			img, payload, err := renderCard(normalizeDigits(args[0]), opts)
			if err != nil {
				return err
			}
			a.log.Debug("rendered", "payload", payload, "width", img.Bounds().Dx(), "height", img.Bounds().Dy())

			var buf bytes.Buffer
			if err := png.Encode(&buf, img); err != nil {
				return err
			}
			if output == "" || output == "-" {
				_, err = io.Copy(cmd.OutOrStdout(), &buf)
				return err
			}
			if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%s)\n", output, payload)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output PNG file (default stdout)")
	cmd.Flags().IntVar(&narrow, "narrow", 0, "narrow element width in pixels (default from config)")
	cmd.Flags().IntVar(&wide, "wide", 0, "wide element width in pixels (default from config)")
	cmd.Flags().IntVar(&height, "height", 0, "bar height in pixels (default from config)")
	cmd.Flags().IntVar(&margin, "margin", 0, "quiet zone in narrow elements (default from config)")
	cmd.Flags().BoolVar(&label, "label", false, "print the digits under the bars (default from config)")
	return cmd
}

// renderCard draws the symbol for contents and, if requested, the payload
// digits centred underneath. It returns the image and the encoded payload.
func renderCard(contents string, opts config.EncodeConfig) (*image.Gray, string, error) {
	payload, err := oned.LibraryCodabarPayload(contents)
	if err != nil {
		return nil, "", err
	}
	writer, err := oned.NewLibraryCodabarWriterWithWidths(opts.Narrow, opts.Wide)
	if err != nil {
		return nil, "", err
	}
	if opts.Height < 1 || opts.Margin < 0 {
		return nil, "", fmt.Errorf("invalid height %d or margin %d: %w", opts.Height, opts.Margin, libcodabar.ErrWriter)
	}
	margin := opts.Margin
	matrix, err := writer.Encode(contents, libcodabar.FormatCodabar, 0, opts.Height, &libcodabar.EncodeOptions{Margin: &margin})
	if err != nil {
		return nil, "", err
	}
	bars := libcodabar.BitMatrixToImage(matrix)
	if !opts.Label {
		return bars, payload, nil
	}

	face := basicfont.Face7x13
	metrics := face.Metrics()
	textHeight := metrics.Height.Ceil()
	b := bars.Bounds()
	img := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()+labelGap+textHeight))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(img, b, bars, b.Min, draw.Src)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.Black,
		Face: face,
	}
	x := (fixed.I(b.Dx()) - d.MeasureString(payload)) / 2
	if x < 0 {
		x = 0
	}
	d.Dot = fixed.Point26_6{X: x, Y: fixed.I(b.Dy()+labelGap) + metrics.Ascent}
	d.DrawString(payload)
	return img, payload, nil
}
