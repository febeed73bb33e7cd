package cli

import (
	"github.com/spf13/cobra"

	"github.com/nixxel-company-limited/escpos-encoder/barcode"
	"github.com/nixxel-company-limited/escpos-encoder/escpos"
)

func newBarcodeCommand(root *rootOptions) *cobra.Command {
	var (
		out           outputOptions
		system        string
		width, height int
		hriPosition   string
		hriFont       string
		justification string
	)

	cmd := &cobra.Command{
		Use:   "barcode DATA",
		Short: "Encode a bar-code",
		Long: `Encode DATA as a bar-code of the chosen system. Supported systems:
UPCA, UPCA_B, UPCE_A, UPCE_B, JAN13_A, JAN13_B, JAN8_A, JAN8_B, CODE39_A,
CODE39_B, ITF_A, ITF_B, CODABAR_A, CODABAR_B, CODE93, CODE128.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sys, err := barcode.ParseSystem(system)
			if err != nil {
				return err
			}
			position, err := barcode.ParseHRIPosition(hriPosition)
			if err != nil {
				return err
			}
			font, err := barcode.ParseHRIFont(hriFont)
			if err != nil {
				return err
			}
			just, err := escpos.ParseJustification(justification)
			if err != nil {
				return err
			}

			enc, err := barcode.New().
				SetSystem(sys).
				SetHRIPosition(position).
				SetHRIFont(font).
				SetJustification(just).
				SetBarCodeSize(width, height)
			if err != nil {
				return err
			}

			return emit[string](cmd, root, &out, enc, args[0])
		},
	}

	cmd.Flags().StringVarP(&system, "system", "s", "CODE93", "bar-code system")
	cmd.Flags().IntVarP(&width, "width", "w", 2, "module width (2-6 or 68-76)")
	cmd.Flags().IntVar(&height, "height", 100, "bar height in dots (1-255)")
	cmd.Flags().StringVar(&hriPosition, "hri", "none", "HRI text position: none, above, below, both")
	cmd.Flags().StringVar(&hriFont, "font", "A", "HRI font: A, B, C")
	cmd.Flags().StringVarP(&justification, "justify", "j", "left", "left, center or right")
	out.bind(cmd)

	return cmd
}
