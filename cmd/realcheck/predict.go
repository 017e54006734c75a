package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/jask/realcheck/internal/config"
	"github.com/jask/realcheck/internal/predict"
	"github.com/jask/realcheck/internal/preview"
	"github.com/jask/realcheck/internal/upload"
	"github.com/jask/realcheck/internal/widget"
)

type predictOptions struct {
	JSON      bool
	NoHistory bool
	Preview   bool
	Quiet     bool
}

var predictOpts predictOptions

var predictCmd = &cobra.Command{
	Use:   "predict <image>",
	Short: "Upload one image and print the verdict",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var progress io.Writer
		if !predictOpts.Quiet && !predictOpts.JSON {
			progress = progressbar.DefaultBytes(-1, "uploading")
		}
		return runPredict(cmd.Context(), cfg, args[0], predictOpts, cmd.OutOrStdout(), progress)
	},
}

func init() {
	predictCmd.Flags().BoolVar(&predictOpts.JSON, "json", false, "print the result as JSON")
	predictCmd.Flags().BoolVar(&predictOpts.NoHistory, "no-history", false, "do not record the result")
	predictCmd.Flags().BoolVar(&predictOpts.Preview, "preview", false, "render the image in the terminal first")
	predictCmd.Flags().BoolVarP(&predictOpts.Quiet, "quiet", "q", false, "hide the upload bar")
	rootCmd.AddCommand(predictCmd)
}

// predictOutput is the --json shape.
type predictOutput struct {
	File        string  `json:"file"`
	MediaType   string  `json:"media_type"`
	Bytes       int     `json:"bytes"`
	Label       string  `json:"label"`
	Confidence  float64 `json:"confidence"`
	Percent     int     `json:"percent"`
	Accent      string  `json:"accent"`
	Explanation string  `json:"explanation,omitempty"`
}

// runPredict drives the same widget the TUI uses, without a terminal UI.
func runPredict(ctx context.Context, c config.Config, path string, opts predictOptions, out, progress io.Writer) error {
	f, err := upload.Open(path, c.Upload.MaxBytes)
	if err != nil {
		if errors.Is(err, upload.ErrTooLarge) {
			return fmt.Errorf("%s exceeds %s", path, humanize.Bytes(uint64(c.Upload.MaxBytes)))
		}
		return err
	}

	var clientOpts []predict.Option
	if progress != nil {
		clientOpts = append(clientOpts, predict.WithProgress(progress))
	}
	previews := preview.NewStore()
	wopts := []widget.Option{widget.WithContext(ctx)}
	if !opts.NoHistory {
		history, closeDB, herr := openHistory(c)
		defer closeDB()
		if herr != nil {
			log.Printf("history disabled: %v", herr)
		} else {
			wopts = append(wopts, widget.WithRecorder(history))
		}
	}
	w := widget.New(newClient(c, clientOpts...), previews, wopts...)
	defer w.Close()

	if err := w.AcceptFile(f); err != nil {
		if errors.Is(err, widget.ErrInvalidFileKind) {
			return fmt.Errorf("%s (got %s)", w.Notice().Text, f.MediaType)
		}
		return err
	}
	if opts.Preview && !opts.JSON {
		fmt.Fprintln(out, previews.Render(w.Preview(), 32))
	}

	err = w.Predict(ctx)
	if progress != nil {
		fmt.Fprintln(os.Stderr)
	}
	if err != nil {
		return err
	}
	res, _ := w.Result()
	if opts.JSON {
		return writeJSON(out, f, res)
	}
	writeText(out, f, res)
	return nil
}

func writeJSON(out io.Writer, f upload.File, res predict.Result) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(predictOutput{
		File:        f.Name,
		MediaType:   f.MediaType,
		Bytes:       f.Size(),
		Label:       res.Label,
		Confidence:  res.Confidence,
		Percent:     res.Percent(),
		Accent:      res.Accent().String(),
		Explanation: res.Explanation,
	})
}

func writeText(out io.Writer, f upload.File, res predict.Result) {
	mark := ""
	if res.Accent() == predict.AccentWarning {
		mark = " ⚠"
	}
	fmt.Fprintf(out, "%s (%s, %s)\n", f.Name, f.MediaType, humanize.Bytes(uint64(f.Size())))
	fmt.Fprintf(out, "%s%s\n", res.Label, mark)
	fmt.Fprintf(out, "Confidence %d%%\n", res.Percent())
	if res.Explanation != "" {
		fmt.Fprintln(out, res.Explanation)
	}
}
