package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"code-command-generator/application"
	"code-command-generator/config"
	"code-command-generator/domain"
	"code-command-generator/infrastructure"
	"code-command-generator/infrastructure/embedding"
	"code-command-generator/infrastructure/vectorstore"
	"code-command-generator/mcpserver"
)

// cliState is shared by every subcommand. It is filled in by the root
// command's PersistentPreRunE and released after the subcommand runs.
type cliState struct {
	configPath string
	verbose    bool

	cfg       *config.Config
	logger    *zap.Logger
	generator *application.GeneratorService
	closers   []func() error
	tornDown  bool
}

func newRootCmd() *cobra.Command {
	st := &cliState{}

	root := &cobra.Command{
		Use:   "cmdgen",
		Short: "Generate shell commands and comments from code snippets",
		Long: `cmdgen classifies a code snippet and produces either a shell command
that runs it or a one-line comment describing it.

Rule-based synthesis covers JavaScript, Python and Java. Snippets the rules
cannot classify can be sent to a remote AI provider (Anthropic, OpenAI,
Gemini or Groq) when an API key is configured.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := st.setup(cmd.Context()); err != nil {
				st.teardown()
				return err
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&st.configPath, "config", "", "config file (default: nearest "+config.FileName+")")
	root.PersistentFlags().BoolVarP(&st.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newGenerateCmd(st, domain.ArtifactCommand),
		newGenerateCmd(st, domain.ArtifactComment),
		newClassifyCmd(st),
		newScanCmd(st),
		newMCPCmd(st),
	)
	// cobra skips PersistentPostRun when RunE fails.
	for _, c := range root.Commands() {
		c.RunE = st.withTeardown(c.RunE)
	}
	return root
}

// withTeardown releases the state built by setup once run returns, whether or
// not it failed.
func (st *cliState) withTeardown(run func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		defer st.teardown()
		return run(cmd, args)
	}
}

func (st *cliState) setup(ctx context.Context) error {
	if err := config.LoadDotEnv(".env.local", ".env"); err != nil {
		return err
	}

	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}
	cfg, err := config.Load(st.configPath, wd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	st.cfg = cfg

	logger, err := newLogger(cfg.Logging, st.verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	st.logger = logger

	remote, err := st.buildRemote(ctx)
	if err != nil {
		return err
	}
	st.generator = application.NewGeneratorService(remote, logger)
	return nil
}

func (st *cliState) teardown() {
	if st.tornDown {
		return
	}
	st.tornDown = true
	for _, c := range st.closers {
		if err := c(); err != nil && st.logger != nil {
			st.logger.Warn("close failed", zap.Error(err))
		}
	}
	st.closers = nil
	if st.logger != nil {
		_ = st.logger.Sync()
	}
}

func newLogger(cfg config.LoggingConfig, verbose bool) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.Development {
		zcfg = zap.NewDevelopmentConfig()
	}

	level := zapcore.WarnLevel
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			return nil, fmt.Errorf("logging.level: %w", err)
		}
	}
	if verbose {
		level = zapcore.DebugLevel
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.OutputPaths = []string{"stderr"}
	zcfg.ErrorOutputPaths = []string{"stderr"}
	return zcfg.Build()
}

// buildRemote returns nil when no provider has a key so that the generator
// falls back to rule-based synthesis under the auto policy.
func (st *cliState) buildRemote(ctx context.Context) (domain.RemoteSynthesizer, error) {
	providers, err := infrastructure.NewProviders(ctx, st.cfg, st.logger)
	if err != nil {
		return nil, err
	}
	if len(providers) == 0 {
		st.logger.Debug("no remote providers configured")
		return nil, nil
	}

	timeout, err := st.cfg.RemoteTimeout()
	if err != nil {
		return nil, err
	}
	opts := []application.ChainOption{
		application.WithTimeout(timeout),
		application.WithLogger(st.logger),
	}
	if st.cfg.Cache.Size > 0 {
		cache, err := infrastructure.NewLRUArtifactCache(st.cfg.Cache.Size)
		if err != nil {
			return nil, err
		}
		opts = append(opts, application.WithCache(cache))
	}
	if opt := st.artifactStore(ctx); opt != nil {
		opts = append(opts, opt)
	}

	chain := application.NewFallbackChain(providers, opts...)
	st.logger.Debug("remote synthesis enabled", zap.Strings("providers", chain.Providers()))
	return chain, nil
}

// artifactStore connects the Qdrant artifact memory. It is optional; any
// failure is logged and the chain runs without it.
func (st *cliState) artifactStore(ctx context.Context) application.ChainOption {
	storeCfg := st.cfg.Store
	if storeCfg.QdrantAddr == "" {
		return nil
	}
	key := st.cfg.OpenAIKey()
	if key == "" {
		st.logger.Warn("artifact store needs an OpenAI key for embeddings, disabled")
		return nil
	}

	embedder, err := embedding.NewOpenAIEmbeddingClient(key, openai.EmbeddingModel(storeCfg.EmbeddingModel))
	if err != nil {
		st.logger.Warn("embedding client unavailable", zap.Error(err))
		return nil
	}
	store, err := vectorstore.NewQdrantClient(ctx, storeCfg.QdrantAddr, storeCfg.Collection, vectorstore.DefaultVectorSize, st.logger)
	if err != nil {
		st.logger.Warn("qdrant unavailable", zap.String("addr", storeCfg.QdrantAddr), zap.Error(err))
		return nil
	}
	st.closers = append(st.closers, store.Close)
	return application.WithArtifactStore(store, embedder, storeCfg.Threshold)
}

// snippetFlags are shared by the command, comment and classify subcommands.
type snippetFlags struct {
	lang  string
	lines string
	line  int
	stdin bool
}

func (f *snippetFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.lang, "lang", "", "language id (default: inferred from the file extension)")
	cmd.Flags().StringVar(&f.lines, "lines", "", "selected line range START:END, 1-based and inclusive")
	cmd.Flags().IntVar(&f.line, "line", 0, "line the selection starts at when reading from stdin")
	cmd.Flags().BoolVar(&f.stdin, "stdin", false, "read the selected code from stdin; FILE only names it")
}

// read builds the snippet from FILE or stdin.
func (f *snippetFlags) read(cmd *cobra.Command, args []string) (domain.Snippet, domain.LanguageTag, error) {
	var path string
	if len(args) > 0 {
		path = args[0]
	}

	lang := domain.ParseLanguage(f.lang)
	if f.lang == "" && path != "" {
		lang = domain.LanguageFromPath(path)
	}

	if f.stdin || path == "" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return domain.Snippet{}, "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return domain.NewSnippet(string(data), path, f.line), lang, nil
	}

	files := infrastructure.SourceFiles{}
	if f.lines == "" {
		content, err := files.ReadSource(path)
		if err != nil {
			return domain.Snippet{}, "", err
		}
		return domain.NewSnippet(content, path, 1), lang, nil
	}

	start, end, err := parseLineRange(f.lines)
	if err != nil {
		return domain.Snippet{}, "", err
	}
	content, err := files.ReadSelection(path, start, end)
	if err != nil {
		return domain.Snippet{}, "", err
	}
	return domain.NewSnippet(content, path, start), lang, nil
}

// parseLineRange parses "START:END", "START:" or "START".
func parseLineRange(s string) (int, int, error) {
	startStr, endStr, hasEnd := strings.Cut(s, ":")
	start, err := strconv.Atoi(strings.TrimSpace(startStr))
	if err != nil || start < 1 {
		return 0, 0, domain.NewInvalidRequest("invalid line range " + strconv.Quote(s))
	}
	if !hasEnd {
		return start, start, nil
	}
	if strings.TrimSpace(endStr) == "" {
		return start, 0, nil
	}
	end, err := strconv.Atoi(strings.TrimSpace(endStr))
	if err != nil || end < start {
		return 0, 0, domain.NewInvalidRequest("invalid line range " + strconv.Quote(s))
	}
	return start, end, nil
}

func newGenerateCmd(st *cliState, kind domain.ArtifactKind) *cobra.Command {
	var (
		flags   snippetFlags
		remote  string
		deliver string
		asJSON  bool
	)

	short := "Generate a shell command that runs the selected code"
	if kind == domain.ArtifactComment {
		short = "Generate a one-line comment describing the selected code"
	}

	cmd := &cobra.Command{
		Use:   string(kind) + " [FILE]",
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			policyName := remote
			if policyName == "" {
				policyName = st.cfg.Remote.Policy
			}
			policy, err := application.ParseRemotePolicy(policyName)
			if err != nil {
				return err
			}
			target, err := application.ParseTarget(deliver)
			if err != nil {
				return err
			}

			snippet, lang, err := flags.read(cmd, args)
			if err != nil {
				return err
			}
			req := application.Request{Snippet: snippet, Language: lang, Kind: kind, Remote: policy}
			result, err := st.generator.Generate(cmd.Context(), req)
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), result)
			}

			deliverer := application.NewDeliverer(cmd.OutOrStdout(),
				infrastructure.SystemClipboard{}, infrastructure.SourceFiles{}, infrastructure.ShellRunner{}, st.logger)
			msg, err := deliverer.Deliver(cmd.Context(), target, result, req)
			if err != nil {
				return err
			}
			if msg != "" {
				fmt.Fprintln(cmd.OutOrStdout(), msg)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&remote, "remote", "", "remote AI policy: never, auto or always (default: config remote.policy)")
	cmd.Flags().StringVar(&deliver, "deliver", string(application.TargetStdout), "where to send the result: stdout, panel, clipboard, insert or run")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}

func newClassifyCmd(st *cliState) *cobra.Command {
	var flags snippetFlags

	cmd := &cobra.Command{
		Use:   "classify [FILE]",
		Short: "Print the structural classification of the selected code as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snippet, lang, err := flags.read(cmd, args)
			if err != nil {
				return err
			}
			c, err := st.generator.Classify(snippet, lang)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), c)
		},
	}
	flags.register(cmd)
	return cmd
}

func newScanCmd(st *cliState) *cobra.Command {
	var (
		include []string
		exclude []string
		kind    string
		remote  string
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "scan [DIR]",
		Short: "Generate an artifact for every matching source file in a directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			artifactKind, err := domain.ParseArtifactKind(kind)
			if err != nil {
				return err
			}
			policy := application.RemoteNever
			if remote != "" {
				if policy, err = application.ParseRemotePolicy(remote); err != nil {
					return err
				}
			}
			if len(include) == 0 {
				include = st.cfg.Scan.Include
			}
			if len(exclude) == 0 {
				exclude = st.cfg.Scan.Exclude
			}

			scanner := application.NewScanService(st.generator, infrastructure.SourceFiles{}, st.logger)
			report, err := scanner.ScanDirectory(cmd.Context(), dir, application.ScanOptions{
				Include: include,
				Exclude: exclude,
				Kind:    artifactKind,
				Remote:  policy,
			})
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), report)
			}
			out := cmd.OutOrStdout()
			for _, r := range report.Results {
				if r.Error != "" {
					fmt.Fprintf(out, "%s: error: %s\n", r.Path, r.Error)
					continue
				}
				fmt.Fprintf(out, "%s [%s]\n%s\n\n", r.Path, r.Result.Category, r.Result.Artifact)
			}
			fmt.Fprintf(out, "%d files, %d skipped, %d failed\n", len(report.Results), report.Skipped, report.Failed)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&include, "include", nil, "glob patterns to include (default: config scan.include)")
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "glob patterns to exclude (default: config scan.exclude)")
	cmd.Flags().StringVar(&kind, "kind", string(domain.ArtifactCommand), "artifact kind: command or comment")
	cmd.Flags().StringVar(&remote, "remote", "", "remote AI policy for scanned files (default: never)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}

func newMCPCmd(st *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the generator as MCP tools over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			policy, err := application.ParseRemotePolicy(st.cfg.Remote.Policy)
			if err != nil {
				return err
			}
			st.logger.Info("starting MCP server", zap.Strings("tools", mcpserver.AllToolNames()))
			return mcpserver.Run(st.generator, policy, Version)
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// describeError renders err the way the user should see it. Generator
// failures use their user-facing message.
func describeError(err error) string {
	var gErr *domain.GeneratorError
	if errors.As(err, &gErr) {
		return domain.UserMessage(err)
	}
	return err.Error()
}
