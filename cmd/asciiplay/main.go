// Package main provides the CLI entrypoint for asciiplay.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/verte-zerg/asciiplay/internal/config"
	"github.com/verte-zerg/asciiplay/internal/ffmpeg"
	"github.com/verte-zerg/asciiplay/internal/historyui"
	"github.com/verte-zerg/asciiplay/internal/model"
	"github.com/verte-zerg/asciiplay/internal/player"
	"github.com/verte-zerg/asciiplay/internal/stats"
	"github.com/verte-zerg/asciiplay/internal/store"
)

const (
	defaultFPS         = 30
	defaultOutput      = "render"
	defaultFFmpeg      = "ffmpeg"
	defaultFFprobe     = "ffprobe"
	defaultAudioPlayer = "mpv"
)

var (
	playMonochrome      bool
	playSilent          bool
	playFPS             int
	playBlackBackground bool
	playVerbose         int
	playDimension       string

	renderFPS     int
	renderOutput  string
	renderVerbose int

	historyMode  string
	historyLast  int
	historyPlain bool
)

var logger = log.NewWithOptions(os.Stderr, log.Options{Level: log.WarnLevel})

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		logFatal(err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "asciiplay",
		Short:         "Play videos as text in the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newPlayCmd())
	rootCmd.AddCommand(newRenderCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func newPlayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play <file>",
		Short: "Play a video in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  runPlayCmd,
	}
	cmd.Flags().BoolVarP(&playMonochrome, "color", "m", false, "disable color output")
	cmd.Flags().BoolVarP(&playSilent, "silent", "s", false, "do not play audio")
	cmd.Flags().IntVarP(&playFPS, "fps", "r", defaultFPS, "frames per second")
	cmd.Flags().BoolVarP(&playBlackBackground, "black-background", "b", false, "paint a black background")
	cmd.Flags().CountVarP(&playVerbose, "verbose", "v", "show per-frame stats (-vv for debug logs)")
	cmd.Flags().StringVar(&playDimension, "render-dimension", "", "character grid W,H (default: terminal size)")
	cmd.Flags().SetNormalizeFunc(normalizePlayFlag)
	return cmd
}

func newRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <file> <W,H>",
		Short: "Render a video to a text file",
		Args:  cobra.ExactArgs(2),
		RunE:  runRenderCmd,
	}
	cmd.Flags().IntVarP(&renderFPS, "fps", "r", defaultFPS, "frames per second")
	cmd.Flags().StringVarP(&renderOutput, "output", "o", defaultOutput, "output file")
	cmd.Flags().CountVarP(&renderVerbose, "verbose", "v", "show per-frame stats (-vv for debug logs)")
	return cmd
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show playback history",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().StringVar(&historyMode, "mode", "", "mode filter (play or render)")
	cmd.Flags().IntVar(&historyLast, "last", 0, "limit to last N sessions")
	cmd.Flags().BoolVar(&historyPlain, "plain", false, "print a table instead of the interactive view")
	return cmd
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runPlayCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.WrapKind(model.KindBadArgs, fmt.Errorf("failed to load config: %w", err))
	}
	applyIntConfig(cmd, "fps", &playFPS, fileCfg.Play.FPS)
	applyBoolConfig(cmd, "color", &playMonochrome, fileCfg.Play.Monochrome)
	applyBoolConfig(cmd, "silent", &playSilent, fileCfg.Play.Silent)
	applyBoolConfig(cmd, "black-background", &playBlackBackground, fileCfg.Play.BlackBackground)
	applyIntConfig(cmd, "verbose", &playVerbose, fileCfg.Play.Verbose)

	cfg := model.Config{
		VideoPath:       args[0],
		Monochrome:      playMonochrome,
		Silent:          playSilent,
		FPS:             playFPS,
		BlackBackground: playBlackBackground,
		Verbose:         playVerbose,
		Tools:           resolveTools(fileCfg),
		RecordHistory:   historyEnabled(fileCfg),
	}
	if playDimension != "" {
		dims, err := ffmpeg.ParseDims(playDimension)
		if err != nil {
			return model.Errorf(model.KindBadArgs, "invalid --render-dimension: %w", err)
		}
		cfg.RenderDimension = &dims
	}
	return runSession(cmd, cfg)
}

func runRenderCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.WrapKind(model.KindBadArgs, fmt.Errorf("failed to load config: %w", err))
	}
	applyIntConfig(cmd, "fps", &renderFPS, fileCfg.Render.FPS)
	applyStringConfig(cmd, "output", &renderOutput, fileCfg.Render.Output)

	dims, err := ffmpeg.ParseDims(args[1])
	if err != nil {
		return model.Errorf(model.KindBadArgs, "invalid render dimension %q: %w", args[1], err)
	}
	cfg := model.Config{
		VideoPath:       args[0],
		Silent:          true,
		FPS:             renderFPS,
		Verbose:         renderVerbose,
		RenderToFile:    true,
		RenderDimension: &dims,
		OutputPath:      renderOutput,
		Tools:           resolveTools(fileCfg),
		RecordHistory:   historyEnabled(fileCfg),
	}
	return runSession(cmd, cfg)
}

func runSession(cmd *cobra.Command, cfg model.Config) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}
	setVerbosity(cfg.Verbose)
	logger.Debug("tools", "ffmpeg", cfg.Tools.FFmpeg, "ffprobe", cfg.Tools.FFprobe, "audio", cfg.Tools.AudioPlayer)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := player.Run(ctx, cfg, player.Env{
		Stdout:       cmd.OutOrStdout(),
		Logger:       logger,
		TerminalSize: terminalSize,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("playback interrupted")
			recordSession(cfg, res.Stats)
			return nil
		}
		return err
	}
	recordSession(cfg, res.Stats)
	if cfg.Verbose >= 1 {
		width, _, serr := terminalSize()
		if serr != nil {
			width = 0
		}
		if err := stats.RenderSummary(cmd.ErrOrStderr(), res.Stats, res.FrameTimes, width); err != nil {
			logger.Warn("failed to print summary", "err", err)
		}
	}
	return nil
}

func recordSession(cfg model.Config, s model.SessionStats) {
	if !cfg.RecordHistory || s.Frames == 0 {
		return
	}
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		logger.Warn("failed to open history", "err", err)
		return
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logger.Warn("failed to close history", "err", cerr)
		}
	}()
	id, err := st.InsertSession(context.Background(), s)
	if err != nil {
		logger.Warn("failed to record session", "err", err)
		return
	}
	logger.Debug("recorded session", "id", id)
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	cfg := model.HistoryConfig{
		Mode: strings.TrimSpace(strings.ToLower(historyMode)),
		Last: historyLast,
	}
	if cfg.Mode != "" && cfg.Mode != model.ModePlay && cfg.Mode != model.ModeRender {
		return model.Errorf(model.KindBadArgs, "--mode must be %q or %q", model.ModePlay, model.ModeRender)
	}
	if cfg.Last < 0 {
		return model.Errorf(model.KindBadArgs, "--last must be >= 0")
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logger.Warn("failed to close db", "err", cerr)
		}
	}()

	if historyPlain || !isTerminal(os.Stdout) {
		report, err := stats.BuildReport(cmd.Context(), st, cfg)
		if err != nil {
			return fmt.Errorf("failed to load history: %w", err)
		}
		return stats.RenderHistory(cmd.OutOrStdout(), report.Sessions)
	}

	ui := historyui.NewModel(historyui.StoreLoader(st), cfg)
	program := tea.NewProgram(ui, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run history TUI: %w", err)
	}
	return nil
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	created, err := config.EnsureConfig(path)
	if err != nil {
		return err
	}
	if created {
		logger.Info("created config", "path", path)
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// normalizePlayFlag accepts --monochrome as an alias of --color.
func normalizePlayFlag(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	if name == "monochrome" {
		name = "color"
	}
	return pflag.NormalizedName(name)
}

func resolveTools(fileCfg config.FileConfig) model.Tools {
	tools := model.Tools{
		FFmpeg:      defaultFFmpeg,
		FFprobe:     defaultFFprobe,
		AudioPlayer: defaultAudioPlayer,
	}
	if v := fileCfg.Tools.FFmpeg; v != nil {
		tools.FFmpeg = *v
	}
	if v := fileCfg.Tools.FFprobe; v != nil {
		tools.FFprobe = *v
	}
	if v := fileCfg.Tools.AudioPlayer; v != nil {
		tools.AudioPlayer = *v
	}
	return tools
}

func historyEnabled(fileCfg config.FileConfig) bool {
	if fileCfg.History.Enabled == nil {
		return true
	}
	return *fileCfg.History.Enabled
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func validateConfig(cfg model.Config) error {
	if strings.TrimSpace(cfg.VideoPath) == "" {
		return model.Errorf(model.KindBadArgs, "video path must not be empty")
	}
	if cfg.FPS <= 0 {
		return model.Errorf(model.KindBadArgs, "--fps must be > 0")
	}
	if cfg.Verbose < 0 {
		return model.Errorf(model.KindBadArgs, "verbosity must be >= 0")
	}
	if cfg.RenderDimension != nil && (cfg.RenderDimension.W <= 0 || cfg.RenderDimension.H <= 0) {
		return model.Errorf(model.KindBadArgs, "render dimension must be positive, got %s", cfg.RenderDimension)
	}
	if cfg.RenderToFile && strings.TrimSpace(cfg.OutputPath) == "" {
		return model.Errorf(model.KindBadArgs, "--output must not be empty")
	}
	if cfg.Tools.FFmpeg == "" || cfg.Tools.FFprobe == "" || (!cfg.Silent && cfg.Tools.AudioPlayer == "") {
		return model.Errorf(model.KindBadArgs, "tool paths must not be empty")
	}
	return nil
}

func setVerbosity(verbose int) {
	switch {
	case verbose >= 2:
		logger.SetLevel(log.DebugLevel)
	case verbose == 1:
		logger.SetLevel(log.InfoLevel)
	default:
		logger.SetLevel(log.WarnLevel)
	}
}

func terminalSize() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func logFatal(err error) {
	logger.Error(err.Error())
}
