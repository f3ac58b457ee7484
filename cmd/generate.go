package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sambabib/dockerfile-gen/pkg/analyzer"
	"github.com/sambabib/dockerfile-gen/pkg/config"
	"github.com/sambabib/dockerfile-gen/pkg/dockerfile"
	"github.com/sambabib/dockerfile-gen/pkg/logger"
	"github.com/sambabib/dockerfile-gen/pkg/output"
	"github.com/sambabib/dockerfile-gen/pkg/store"
)

var (
	outputFile  string
	scanImports bool
	format       string // output format: text or json
	saveToStore  bool
	storeName    string
	printContent bool
)

// generateCmd represents the generate subcommand
var generateCmd = &cobra.Command{
	Use:   "generate <python-file>",
	Short: "Analyze a Python file and generate a Dockerfile",
	Long:  "Analyze a Python file, infer its minimum Python version, dependencies and application type, and write a Dockerfile next to it.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		out := outputFile
		if out == "" {
			out = cfg.Output.File
		}

		detector := &analyzer.VersionDetector{
			VerminPath: cfg.Vermin.Path,
			Timeout:    cfg.VerminTimeout(),
		}
		a := &analyzer.Analyzer{Versions: detector, ScanImports: scanImports}

		logger.Infof("Analyzing Python file: %s", path)
		result, err := a.Analyze(cmd.Context(), path)
		if err != nil {
			return err
		}

		logger.Infof("Detected imports: %s", orNone(strings.Join(result.Imports, ", ")))
		logger.Infof("Application type: %s", result.AppType)
		logger.Infof("Python version: %s (detected via %s)", result.PythonVersion, result.DetectionMethod)

		content := dockerfile.Generate(result)

		outPath := filepath.Join(filepath.Dir(path), out)
		if err := os.WriteFile(outPath, []byte(content), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", outPath, err)
		}
		logger.Infof("Dockerfile generated successfully: %s", outPath)

		if format == "json" {
			data, err := output.GenerateJSONReport(result)
			if err != nil {
				return fmt.Errorf("failed to marshal report to JSON: %w", err)
			}
			fmt.Println(string(data))
		} else {
			output.PrintTextReport(result)
		}

		if printContent {
			fmt.Println()
			fmt.Println(content)
		}

		if saveToStore {
			name := storeName
			if name == "" {
				name = out
			}
			if err := saveDockerfile(cmd, cfg, name, content); err != nil {
				return err
			}
		}
		return nil
	},
}

func saveDockerfile(cmd *cobra.Command, cfg *config.Config, name, content string) error {
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	rec, err := st.Add(cmd.Context(), name, content)
	if err != nil {
		return fmt.Errorf("failed to save Dockerfile to store: %w", err)
	}
	logger.Infof("Dockerfile stored as %q (id %d, %s %s)", rec.Name, rec.ID, rec.CreatedDate, rec.CreatedTime)
	return nil
}

func openStore(cfg *config.Config) (store.Store, error) {
	opts, err := cfg.StoreOptions()
	if err != nil {
		return nil, err
	}
	dsn := cfg.Store.DSN
	if env := os.Getenv("DOCKERGEN_PG_DSN"); env != "" {
		dsn = env
	}
	return store.Open(dsn, opts)
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadConfig(configPath)
	}
	wd, err := os.Getwd()
	if err != nil {
		return config.DefaultConfig(), nil
	}
	return config.FindAndLoadConfig(wd)
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output Dockerfile name (default: Dockerfile)")
	generateCmd.Flags().BoolVarP(&scanImports, "scan-imports", "s", false, "Scan local imported modules for version requirements (requires vermin)")
	generateCmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text or json")
	generateCmd.Flags().BoolVar(&saveToStore, "save", false, "Save the generated Dockerfile to the configured store")
	generateCmd.Flags().StringVar(&storeName, "name", "", "Name to store the Dockerfile under (default: output file name)")
	generateCmd.Flags().BoolVar(&printContent, "print", false, "Print the generated Dockerfile after the summary")
}
