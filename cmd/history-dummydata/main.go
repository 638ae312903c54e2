// history-dummydata fills a history database with synthetic samples so
// benchmarks and demos have data to read back.  Each sub-command writes
// one sample per step over an inclusive time range and stops at the
// first failed write.
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"

	"golang.org/x/crypto/ssh/terminal"

	"github.com/go-graphite/historytools"
	"github.com/go-graphite/historytools/dummydata"
	"github.com/go-graphite/historytools/history"
)

// Status and errors go to STDERR through the log interface.

// Command is one sub-command of the command table.
type Command struct {
	// Name is the sub-command name
	Name string

	// Kind is the value type the command writes
	Kind historytools.ValueKind

	// Usage is the one line usage
	Usage string

	// Short is a one line help description
	Short string

	// Run the command with the args after the sub-command name.
	Run func(args []string) bool
}

// CommandMap maps sub-command names to commands.
type CommandMap map[string]Command

// Sorted returns the commands ordered by name for output sanity.
func (m CommandMap) Sorted() []Command {
	ret := make([]Command, 0, len(m))
	for _, c := range m {
		ret = append(ret, c)
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].Name < ret[j].Name })
	return ret
}

const argsUsage = "db_name metric_id begin_time end_time step"

// addCommand builds the add_<kind> command bound to factory.
func addCommand(f *dummydata.Factory, kind historytools.ValueKind, progress int) Command {
	c := Command{
		Name:  "add_" + kind.String(),
		Kind:  kind,
		Usage: argsUsage,
		Short: fmt.Sprintf("Write the %s value %s at every step from begin_time to end_time.",
			kind, dummyValue(kind)),
	}
	c.Run = func(args []string) bool {
		return addData(f, c, args, progress)
	}
	return c
}

func dummyValue(kind historytools.ValueKind) string {
	switch kind {
	case historytools.KindUint:
		return fmt.Sprintf("%d", dummydata.UintValue)
	case historytools.KindFloat:
		return fmt.Sprintf("%.1f", dummydata.FloatValue)
	}
	return fmt.Sprintf("%q", dummydata.StringValue)
}

// newCommands returns the command table.  progress is passed through to
// the generator, 0 disables progress lines.
func newCommands(f *dummydata.Factory, progress int) CommandMap {
	cmds := make(CommandMap)
	for _, kind := range historytools.ValueKinds {
		c := addCommand(f, kind, progress)
		cmds[c.Name] = c
	}
	return cmds
}

// addData runs an add_<kind> command.  The store is opened before the
// metric id is parsed.
func addData(f *dummydata.Factory, c Command, args []string, progress int) bool {
	if len(args) < 5 {
		log.Printf("Error: %s command needs 5 args.", c.Name)
		log.Printf("Usage: %s %s", c.Name, c.Usage)
		return false
	}

	f.SetDatabaseName(args[0])
	st, err := f.Get()
	if err != nil {
		log.Printf("Error: Failed to create context")
		log.Printf("%s", err)
		return false
	}

	id, ok := dummydata.ParseUint64(args[1])
	if !ok {
		log.Printf("Error: failed to parse data ID: %s", args[1])
		return false
	}

	var r dummydata.TimeRange
	for i, p := range []*int64{&r.Begin, &r.End, &r.Step} {
		if *p, err = dummydata.ParseTime(args[2+i]); err != nil {
			log.Printf("Error: %s", err)
			return false
		}
	}

	n, err := dummydata.WriteSeries(st, id, r, c.Kind, dummydata.WithProgress(progress))
	if err != nil {
		log.Printf("Error: %s", err)
		log.Printf("%d samples written before the failure", n)
		return false
	}

	return true
}

func usage(w io.Writer, program string, cmds CommandMap) {
	t := []string{
		"Usage:\n\n",
		" $ %s command args\n",
		"Version: %s\n\n",
		"\tFill a history database with dummy samples, one per step\n",
		"\tbetween begin_time and end_time inclusive.\n\n",
		"*** command list ***\n",
	}
	fmt.Fprintf(w, strings.Join(t, ""), program, historytools.Version)
	for _, c := range cmds.Sorted() {
		fmt.Fprintf(w, "  %-10s %s\n", c.Name, c.Usage)
		fmt.Fprintf(w, "\t%s\n", c.Short)
	}

	t = []string{
		"\n*** db_name ***\n",
		"  PATH, sqlite:PATH     SQLite history tables\n",
		"  whisper:DIR           Whisper DBs, one per metric_id\n",
		"  carbon:HOST:PORT      carbon plaintext protocol\n",
		"  pickle:HOST:PORT      carbon pickle protocol\n",
		"  tstorage:DIR          tstorage database\n",
		"  Append ?key=value&... to set prefix, retentions, aggregation,\n",
		"  xff, timeout or partition.\n\n",
	}
	fmt.Fprint(w, strings.Join(t, ""))
}

// run dispatches argv to cmds and returns the process exit code.
func run(argv []string, cmds CommandMap) int {
	if len(argv) == 0 {
		usage(os.Stderr, "history-dummydata", cmds)
		return 1
	}
	if len(argv) < 2 {
		usage(os.Stderr, argv[0], cmds)
		return 1
	}

	switch argv[1] {
	case "help", "-h", "--help":
		usage(os.Stdout, argv[0], cmds)
		return 0
	}

	c, ok := cmds[argv[1]]
	if !ok {
		log.Printf("Error: unknown command: %s", argv[1])
		return 1
	}

	if !c.Run(argv[2:]) {
		return 1
	}
	return 0
}

// setupDummyData owns the history store for the whole run and releases
// it on every return path.
func setupDummyData(argv []string, open dummydata.OpenFunc, progress int) (code int) {
	factory := dummydata.NewFactory(open)
	defer func() {
		if err := factory.Close(); err != nil {
			log.Printf("Error: closing %s: %s", factory.DatabaseName(), err)
			code = 1
		}
	}()

	return run(argv, newCommands(factory, progress))
}

func main() {
	progress := 0
	if terminal.IsTerminal(int(os.Stderr.Fd())) {
		progress = 10000
	}

	os.Exit(setupDummyData(os.Args, history.Open, progress))
}
