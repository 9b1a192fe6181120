package cmd

import (
	"fmt"
	"os"

	"github.com/nconklindev/ratoolkit/internal/logging"
	"github.com/nconklindev/ratoolkit/internal/types"
	"github.com/nconklindev/ratoolkit/internal/workflow"

	"github.com/spf13/cobra"
)

var (
	inputFile  string
	outputFile string
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Back up and convert a spreadsheet without the interactive form",
	Long: `Convert the first sheet of an Excel workbook into an HTML table.

Both files are backed up before the output is overwritten. The input and
output default to RATOOLKIT_INPUT and RATOOLKIT_OUTPUT.`,
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVarP(&inputFile, "input", "i", "", "Excel file to convert")
	convertCmd.Flags().StringVarP(&outputFile, "output", "o", "", "HTML file to overwrite")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	in, out := inputFile, outputFile
	if in == "" {
		in = cfg.InputFile
	}
	if out == "" {
		out = cfg.OutputFile
	}

	log := logging.New(logging.NewConsoleSink(os.Stdout))
	warnOutsideHome(log)

	state, err := newController(log).Run(types.ConversionRequest{
		InputFile:  in,
		OutputFile: out,
	})
	if err != nil {
		return err
	}
	if state != workflow.StateDone {
		return fmt.Errorf("conversion %s", state)
	}
	return nil
}
