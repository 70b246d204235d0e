// Package cli implements farmctl, the command-line dashboard for the farm
// service.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"farm-service/internal/client"
)

const (
	defaultAPIURL = "http://localhost:8080"
	sessionName   = "session.json"
)

type app struct {
	v   *viper.Viper
	in  *bufio.Reader
	out io.Writer
	err io.Writer
	log zerolog.Logger
	api *client.Client
}

// NewRootCommand wires every farmctl subcommand. Configuration comes from
// flags or FARM_* environment variables.
func NewRootCommand(in io.Reader, out, errOut io.Writer) *cobra.Command {
	a := &app{
		v:   viper.New(),
		in:  bufio.NewReader(in),
		out: out,
		err: errOut,
	}

	root := &cobra.Command{
		Use:           "farmctl",
		Short:         "Manage companies, regions, sectors, pivots and fields",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
	}

	flags := root.PersistentFlags()
	flags.String("api-url", defaultAPIURL, "farm service base URL")
	flags.String("session-file", "", "where login tokens are kept")
	flags.BoolP("verbose", "v", false, "log API requests")

	a.v.SetEnvPrefix("FARM")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()
	_ = a.v.BindPFlag("api-url", flags.Lookup("api-url"))
	_ = a.v.BindPFlag("session-file", flags.Lookup("session-file"))
	_ = a.v.BindPFlag("verbose", flags.Lookup("verbose"))

	root.AddCommand(
		a.loginCommand(),
		a.logoutCommand(),
		a.registerCommand(),
		a.listCommand(),
		a.showCommand(),
		a.deleteCommand(),
		a.rotationsCommand(),
		a.mapCommand(),
	)
	for _, e := range formEntities {
		root.AddCommand(a.entityCommand(e))
	}

	return root
}

func (a *app) setup() error {
	level := zerolog.WarnLevel
	if a.v.GetBool("verbose") {
		level = zerolog.DebugLevel
	}
	a.log = zerolog.New(zerolog.ConsoleWriter{Out: a.err, NoColor: true}).
		Level(level).
		With().
		Timestamp().
		Logger()

	path := a.v.GetString("session-file")
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return fmt.Errorf("no session file configured: %w", err)
		}
		path = filepath.Join(dir, "farmctl", sessionName)
	}

	session := client.NewSession(client.FileStore{Path: path})
	a.api = client.New(a.v.GetString("api-url"), session, client.WithLogger(a.log))
	a.log.Debug().Str("api", a.v.GetString("api-url")).Str("session", path).Msg("configured")
	return nil
}

func (a *app) printf(format string, args ...interface{}) {
	fmt.Fprintf(a.out, format, args...)
}

// readLine reads one answer from the input, without the newline.
func (a *app) readLine(prompt string) (string, error) {
	fmt.Fprint(a.err, prompt)
	line, err := a.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
