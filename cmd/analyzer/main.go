package main

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kbinani/screenshot"
	"github.com/schollz/progressbar/v3"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/imagegraph/grok-analyzer/pkg/analyzer"
	"github.com/imagegraph/grok-analyzer/pkg/config"
	"github.com/imagegraph/grok-analyzer/pkg/imaging"
	"github.com/imagegraph/grok-analyzer/pkg/node"
	"github.com/imagegraph/grok-analyzer/pkg/xai"
)

var (
	analyzeFile string
	modelName   string
	apiKeyFlag  string
	sysPrompt   string
	userPrompt  string

	screenshotDisplay int

	runVerbose bool
)

func NewRootCmd() *cobra.Command {
	var rootCmd = &cobra.Command{
		Use:   "analyzer",
		Short: "analyzer runs the Grok image analysis node from the command line",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if runVerbose {
				log.SetLevel(log.DebugLevel)
			}
		},
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&runVerbose, "verbose", "v", false,
		"Verbose logging")

	// analyze subcommand
	var analyzeCmd = &cobra.Command{
		Use:   "analyze",
		Short: "Analyze an image file",
		Run: func(cmd *cobra.Command, args []string) {
			if analyzeFile == "" {
				log.Errorf("No input file given")
				return
			}
			f, err := os.Open(analyzeFile)
			if err != nil {
				log.Errorf("Error opening %s: %v", analyzeFile, err)
				return
			}
			defer f.Close()
			img, format, err := image.Decode(f)
			if err != nil {
				log.Errorf("Error decoding %s: %v", analyzeFile, err)
				return
			}
			log.Debugf("Decoded %s image %s", format, analyzeFile)
			runAnalysis(imaging.FromImage(img))
		},
	}
	analyzeCmd.Flags().StringVarP(&analyzeFile, "file", "f", "",
		"Image file to analyze")
	addAnalysisFlags(analyzeCmd)

	// screenshot subcommand
	var screenshotCmd = &cobra.Command{
		Use:   "screenshot",
		Short: "Capture a display and analyze the captured frame",
		Run: func(cmd *cobra.Command, args []string) {
			n := screenshot.NumActiveDisplays()
			if n <= 0 {
				log.Errorf("No active displays detected")
				return
			}
			if screenshotDisplay < 0 || screenshotDisplay >= n {
				log.Errorf("Invalid display index %d, have %d displays", screenshotDisplay, n)
				return
			}
			bound := screenshot.GetDisplayBounds(screenshotDisplay)
			img, err := screenshot.CaptureRect(bound)
			if err != nil {
				log.Errorf("Error capturing display %d: %v", screenshotDisplay, err)
				return
			}
			runAnalysis(imaging.FromImage(img))
		},
	}
	screenshotCmd.Flags().IntVarP(&screenshotDisplay, "display", "d", 0,
		"Display index to capture")
	addAnalysisFlags(screenshotCmd)

	// nodes subcommand
	var nodesCmd = &cobra.Command{
		Use:   "nodes",
		Short: "List registered nodes and their schemas",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range node.Names() {
				d, _ := node.Lookup(name)
				info := d.Info()
				fmt.Printf("%s (%s) category=%s\n", name, info.DisplayName, info.Category)
				for _, in := range d.Inputs() {
					def := in.Default
					if in.Masked {
						def = "********"
					}
					fmt.Printf("  input  %-14s %-7s required=%-5v default=%q\n",
						in.Name, in.Type, in.Required, def)
				}
				for _, out := range d.Outputs() {
					fmt.Printf("  output %-14s %s\n", out.Name, out.Type)
				}
			}
		},
	}

	rootCmd.AddCommand(analyzeCmd, screenshotCmd, nodesCmd)
	return rootCmd
}

func addAnalysisFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&modelName, "model", "m", analyzer.DefaultModel,
		"Model to analyze with")
	cmd.Flags().StringVarP(&apiKeyFlag, "key", "k", "",
		"API key (overrides XAI_API_KEY)")
	cmd.Flags().StringVarP(&sysPrompt, "system", "s", "",
		"System prompt (empty uses the node default)")
	cmd.Flags().StringVarP(&userPrompt, "user", "u", "",
		"User prompt (empty uses the node default)")
}

func runAnalysis(tensor *imaging.Tensor) {
	d, ok := node.Lookup(analyzer.NodeName)
	if !ok {
		log.Errorf("Node not registered: %s", analyzer.NodeName)
		return
	}

	invID := uuid.New().String()
	log.Debugf("Invocation %s: image %dx%d, %d channel(s)",
		invID, tensor.Width, tensor.Height, tensor.Channels)

	in := node.Values{
		"image":         tensor,
		"api_key":       apiKeyFlag,
		"model":         modelName,
		"system_prompt": sysPrompt,
		"user_prompt":   userPrompt,
	}

	bar := progressbar.NewOptions64(
		-1,
		progressbar.OptionSetDescription("Analyzing..."),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetWidth(10),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(os.Stderr, "\n")
		}),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionFullWidth(),
		progressbar.OptionSetRenderBlankState(true),
	)

	var out node.Values
	var execErr error
	done := make(chan struct{})
	go func() {
		out, execErr = d.Execute(context.Background(), in)
		close(done)
	}()

	for {
		bar.Add(1)
		select {
		case <-done:
			bar.Describe("Done")
			bar.Close()
			if execErr != nil {
				log.Errorf("Invocation %s failed: %v", invID, execErr)
				os.Exit(1)
			}
			log.Debugf("Invocation %s succeeded, %d chars",
				invID, len(strings.TrimSpace(out.String("prompt"))))
			return
		default:
			time.Sleep(100 * time.Millisecond)
		}
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	client := xai.NewClient(cfg.BaseURL, cfg.RequestTimeout)
	if err := node.Register(analyzer.NodeName, analyzer.New(client, cfg.APIKey)); err != nil {
		log.Fatalf("Error registering node: %v", err)
	}

	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
