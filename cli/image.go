package cli

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/spf13/cobra"

	"github.com/nixxel-company-limited/escpos-encoder/escpos"
	"github.com/nixxel-company-limited/escpos-encoder/raster"
)

func newImageCommand(root *rootOptions) *cobra.Command {
	var (
		out           outputOptions
		justification string
		threshold     uint8
		bandHeight    int
	)

	cmd := &cobra.Command{
		Use:   "image FILE",
		Short: "Encode a PNG, JPEG or GIF image as a raster bit image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			just, err := escpos.ParseJustification(justification)
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			img, _, err := image.Decode(f)
			if err != nil {
				return fmt.Errorf("%w: %s: %v", escpos.ErrInvalidImage, args[0], err)
			}

			enc, err := raster.New().
				SetJustification(just).
				SetBinarizer(raster.Threshold(threshold)).
				SetBandHeight(bandHeight)
			if err != nil {
				return err
			}

			return emit[raster.Image](cmd, root, &out, enc, raster.FromImage(img))
		},
	}

	cmd.Flags().StringVarP(&justification, "justify", "j", "left", "left, center or right")
	cmd.Flags().Uint8VarP(&threshold, "threshold", "t", uint8(raster.DefaultThreshold), "luminance below which a pixel prints (0-255)")
	cmd.Flags().IntVar(&bandHeight, "band-height", 0xFFFF, "maximum rows per raster command")
	out.bind(cmd)

	return cmd
}
