package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync/atomic"

	"github.com/dmitrijs2005/propkeeper/internal/buildinfo"
	"github.com/dmitrijs2005/propkeeper/internal/config"
	"github.com/dmitrijs2005/propkeeper/internal/logging"
	"github.com/dmitrijs2005/propkeeper/internal/models"
	"github.com/spf13/cobra"
)

// errReported marks a failure that was already shown to the user.
var errReported = errors.New("command failed")

// Options wires the command to its streams.
type Options struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

type state struct {
	opts Options
	app  atomic.Pointer[App]
}

func (s *state) App() *App { return s.app.Load() }

// NewRootCommand builds the command tree. The App is created in
// PersistentPreRunE, so help and flag errors never touch the disk.
func NewRootCommand(opts Options) (*cobra.Command, *state) {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = stdout()
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}
	st := &state{opts: opts}

	root := &cobra.Command{
		Use:           "propvault",
		Short:         "Encrypted document vault for tenants, landlords, properties and tenancies",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(config.Options{
				EnvFiles: config.EnvFiles(cmd.Flags()),
				Flags:    cmd.Flags(),
			})
			if err != nil {
				return err
			}

			log := logging.New(cfg.LogLevel, cfg.LogFormat, opts.Err)
			app, err := NewApp(cmd.Context(), cfg, log, opts.In, opts.Out)
			if err != nil {
				return err
			}
			st.app.Store(app)
			return nil
		},
	}
	root.SetIn(opts.In)
	root.SetOut(opts.Out)
	root.SetErr(opts.Err)

	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(
		newInitCommand(st),
		newDocCommand(st),
		newEntityCommand(st),
		newImageCommand(st),
		newPreviewCommand(st),
		newKeyCommand(st),
		newBackupCommand(st),
		newLogCommand(st),
		newVersionCommand(),
	)
	return root, st
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "version",
		Short:             "Print build information",
		Args:              cobra.NoArgs,
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			buildinfo.PrintBuildData(cmd.OutOrStdout())
		},
	}
}

// exit is a test seam.
var exit = os.Exit

// Execute runs the command line and returns the process exit code. When ctx
// is cancelled (SIGINT/SIGTERM from main) registered previews are swept
// before the process exits.
func Execute(ctx context.Context, args []string, opts Options) int {
	root, st := NewRootCommand(opts)
	root.SetArgs(args)

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			if app := st.App(); app != nil {
				app.vault.Preview().Sweep(context.Background())
			}
			exit(130)
		case <-done:
		}
	}()

	err := root.ExecuteContext(ctx)

	if app := st.App(); app != nil {
		app.Close(context.Background())
	}

	if err != nil {
		if !errors.Is(err, errReported) {
			failure(root.ErrOrStderr(), "%v", err)
		}
		return 1
	}
	return 0
}

func parseEntity(typeArg, idArg string) (models.EntityType, int64, error) {
	t, err := models.ParseEntityType(typeArg)
	if err != nil {
		return "", 0, err
	}
	id, err := parseID(idArg)
	if err != nil {
		return "", 0, err
	}
	return t, id, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
