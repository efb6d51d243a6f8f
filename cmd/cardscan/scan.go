package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"

	libcodabar "github.com/ericlevine/libcodabar"
	"github.com/ericlevine/libcodabar/binarizer"
	"github.com/ericlevine/libcodabar/card"

	// Register the library Codabar reader.
	_ "github.com/ericlevine/libcodabar/oned"
)

type scanOptions struct {
	TryHarder bool
	Workers   int
	MaxWidth  int
}

type scanResult struct {
	Path   string
	Result *libcodabar.Result
	Err    error
}

func newScanCmd(a *app) *cobra.Command {
	var (
		tryHarder bool
		workers   int
		maxWidth  int
		showCard  bool
	)

	cmd := &cobra.Command{
		Use:   "scan <image-file> [image-file...]",
		Short: "Decode library card barcodes in image files (PNG, JPEG, GIF, BMP, TIFF, WebP)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := scanOptions{
				TryHarder: a.cfg.TryHarder,
				Workers:   a.cfg.Workers,
				MaxWidth:  a.cfg.MaxWidth,
			}
			if cmd.Flags().Changed("try-harder") {
				opts.TryHarder = tryHarder
			}
			if cmd.Flags().Changed("workers") {
				opts.Workers = workers
			}
			if cmd.Flags().Changed("max-width") {
				opts.MaxWidth = maxWidth
			}
			if opts.Workers < 1 {
				return fmt.Errorf("--workers must be at least 1, got %d", opts.Workers)
			}

			results, err := scanFiles(cmd.Context(), args, opts, a.log)
			if err != nil {
				return err
			}

			failed := 0
			for _, r := range results {
				if r.Err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", r.Path, r.Err)
					failed++
					continue
				}
				if len(args) > 1 {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: ", r.Path)
				}
				printResult(cmd.OutOrStdout(), r.Result, showCard)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files had no readable barcode", failed, len(results))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&tryHarder, "try-harder", false, "scan more rows and retry with the image rotated")
	cmd.Flags().IntVar(&workers, "workers", 0, "number of files decoded in parallel (default from config)")
	cmd.Flags().IntVar(&maxWidth, "max-width", 0, "scale wider images down to this width first, 0 disables (default from config)")
	cmd.Flags().BoolVar(&showCard, "card", false, "also print the card kind, institution and serial")
	return cmd
}

func printResult(w io.Writer, r *libcodabar.Result, showCard bool) {
	line := fmt.Sprintf("[%s] %s", r.Format, r.Text)
	if showCard {
		if id, err := card.FromResult(r); err == nil {
			line += " " + id.String()
		} else {
			line += " (not a card id)"
		}
	}
	fmt.Fprintln(w, line)
}

// scanFiles decodes paths concurrently. Results come back in input order;
// per-file failures are reported in scanResult.Err, and the returned error
// is non-nil only when ctx is cancelled.
func scanFiles(ctx context.Context, paths []string, opts scanOptions, log *slog.Logger) ([]scanResult, error) {
	results := make([]scanResult, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)

	for i, path := range paths {
		i, path := i, path // per-iteration copy; go directive is 1.21 (pre-loopvar semantics)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			result, err := scanFile(path, opts)
			results[i] = scanResult{Path: path, Result: result, Err: err}
			if err != nil {
				log.Debug("scan failed", "path", path, "err", err)
			} else {
				log.Debug("scan ok", "path", path, "text", result.Text)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func scanFile(path string, opts scanOptions) (*libcodabar.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	result, err := decodeImage(downscale(img, opts.MaxWidth), opts.TryHarder)
	if errors.Is(err, libcodabar.ErrNotFound) {
		return nil, errors.New("no library card barcode found")
	}
	return result, err
}

// decodeImage reads rows of img with the global histogram binarizer, then
// with the local Hybrid one for unevenly lit photos. With tryHarder, an image
// that fails upright is retried turned a quarter counter-clockwise, for
// symbols printed vertically.
func decodeImage(img image.Image, tryHarder bool) (*libcodabar.Result, error) {
	source := libcodabar.NewImageLuminanceSource(img)
	opts := &libcodabar.DecodeOptions{
		TryHarder:       tryHarder,
		PossibleFormats: []libcodabar.Format{libcodabar.FormatCodabar},
	}
	reader := libcodabar.NewMultiFormatReader()

	result, err := decodeSource(reader, source, opts)
	if err == nil || !tryHarder {
		return result, err
	}

	result, err = decodeSource(reader, source.RotateCounterClockwise(), opts)
	if err != nil {
		return nil, err
	}
	orientation := 270
	if o, ok := result.Metadata[libcodabar.MetadataOrientation].(int); ok {
		orientation = (orientation + o) % 360
	}
	result.PutMetadata(libcodabar.MetadataOrientation, orientation)
	return result, nil
}

func decodeSource(reader *libcodabar.MultiFormatReader, source libcodabar.LuminanceSource, opts *libcodabar.DecodeOptions) (*libcodabar.Result, error) {
	bitmaps := []*libcodabar.BinaryBitmap{
		libcodabar.NewBinaryBitmap(binarizer.NewGlobalHistogram(source)),
		libcodabar.NewBinaryBitmap(binarizer.NewHybrid(source)),
	}
	for _, bitmap := range bitmaps {
		if result, err := reader.Decode(bitmap, opts); err == nil {
			return result, nil
		}
	}
	return nil, libcodabar.ErrNotFound
}

// downscale shrinks img to maxWidth, keeping its aspect ratio. Transparent
// areas become white.
func downscale(img image.Image, maxWidth int) image.Image {
	b := img.Bounds()
	if maxWidth <= 0 || b.Dx() <= maxWidth {
		return img
	}
	height := b.Dy() * maxWidth / b.Dx()
	if height < 1 {
		height = 1
	}
	dst := image.NewGray(image.Rect(0, 0, maxWidth, height))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}
