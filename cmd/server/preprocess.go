package main

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/Brownie44l1/waste-classifier-api/internal/preprocess"
	"github.com/spf13/cobra"
)

func newPreprocessCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "preprocess <image>...",
		Short: "Run preprocessing on local images and print the tensor summary",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := preprocess.New()
			for _, path := range args {
				raw, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				tensor, err := p.Preprocess(base64.StdEncoding.EncodeToString(raw))
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				lo, hi, mean := summarize(tensor.Data)
				fmt.Fprintf(cmd.OutOrStdout(), "%s\tshape=%v\tdtype=%s\tmin=%.4f\tmax=%.4f\tmean=%.4f\n",
					path, tensor.Shape, tensor.DType(), lo, hi, mean)
			}
			return nil
		},
	}
}

func summarize(data []float32) (lo, hi, mean float32) {
	if len(data) == 0 {
		return 0, 0, 0
	}
	lo, hi = data[0], data[0]
	var sum float64
	for _, v := range data {
		lo = min(lo, v)
		hi = max(hi, v)
		sum += float64(v)
	}
	return lo, hi, float32(sum / float64(len(data)))
}
