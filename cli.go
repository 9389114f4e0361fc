package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/term"

	"badminton-eval-go/evaluator"
	"badminton-eval-go/handlers"
	"badminton-eval-go/models"
	"badminton-eval-go/report"
)

var (
	isTerminalFunc = term.IsTerminal // mockable

	errHelp    = errors.New("help provided")
	errAborted = errors.New("reset aborted")
)

type commandLine struct {
	h       *handlers.Handler
	in      io.Reader
	stdinFd int
	out     io.Writer
	errOut  io.Writer
	now     func() time.Time
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.errOut, "Usage:")
	fmt.Fprintln(cli.errOut, "  class add NAME                          - create a class")
	fmt.Fprintln(cli.errOut, "  class list                              - list classes")
	fmt.Fprintln(cli.errOut, "  class delete ID                         - delete a class, its students and their evaluations")
	fmt.Fprintln(cli.errOut, "  student add -class ID NAME              - add a student to a class")
	fmt.Fprintln(cli.errOut, "  student list [-class ID]                - list students with their total")
	fmt.Fprintln(cli.errOut, "  student delete ID                       - delete a student and its evaluations")
	fmt.Fprintln(cli.errOut, "  student import -class ID FILE.xlsx      - add the names in column A of a roster")
	fmt.Fprintln(cli.errOut, "  eval sequence -student ID -aflp4 N -aflp5 N [-dist 4-4]")
	fmt.Fprintln(cli.errOut, "  eval final -student ID -matches N -won N [-aflp2 N] [-aflp1 SCORE] [-aflp1-degree N]")
	fmt.Fprintln(cli.errOut, "  eval suggest -matches N -won N          - show the AFLP1 score a match record earns")
	fmt.Fprintln(cli.errOut, "  eval show ID                            - show the evaluations of a student")
	fmt.Fprintln(cli.errOut, "  results [-class ID]                     - rank students by total")
	fmt.Fprintln(cli.errOut, "  stats                                   - show counters and the average total")
	fmt.Fprintln(cli.errOut, "  export csv|xlsx|json [-o FILE]          - export results or a full backup (-o - for stdout)")
	fmt.Fprintln(cli.errOut, "  import FILE.json                        - replace everything with a backup")
	fmt.Fprintln(cli.errOut, "  reset [-yes]                            - delete everything")
}

func (cli *commandLine) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.errOut)
	return fs
}

// parse maps -h to errHelp.
func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return errHelp
		}
		return err
	}
	return nil
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	switch args[1] {
	case "class":
		return cli.runClass(args[2:])
	case "student":
		return cli.runStudent(args[2:])
	case "eval":
		return cli.runEval(args[2:])
	case "results":
		fs := cli.flagSet("results")
		classID := fs.String("class", "", "Only rank the students of this class.")
		if err := parse(fs, args[2:]); err != nil {
			return err
		}
		return cli.h.Results(*classID)
	case "stats":
		return cli.h.Stats()
	case "export":
		return cli.runExport(args[2:])
	case "import":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		f, err := os.Open(args[2])
		if err != nil {
			return err
		}
		defer f.Close()
		return cli.h.ImportJSON(f)
	case "reset":
		return cli.runReset(args[2:])
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) runClass(args []string) error {
	if len(args) == 0 {
		cli.printUsage()
		return errHelp
	}

	switch args[0] {
	case "add":
		name := strings.Join(args[1:], " ")
		if name == "" {
			cli.printUsage()
			return errHelp
		}
		_, err := cli.h.AddClass(name)
		return err
	case "list":
		return cli.h.ListClasses()
	case "delete":
		if len(args) < 2 {
			cli.printUsage()
			return errHelp
		}
		return cli.h.DeleteClass(args[1])
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) runStudent(args []string) error {
	if len(args) == 0 {
		cli.printUsage()
		return errHelp
	}

	fs := cli.flagSet("student " + args[0])
	classID := fs.String("class", "", "The class ID.")

	switch args[0] {
	case "add":
		if err := parse(fs, args[1:]); err != nil {
			return err
		}
		name := strings.Join(fs.Args(), " ")
		if *classID == "" || name == "" {
			fs.Usage()
			return errHelp
		}
		_, err := cli.h.AddStudent(*classID, name)
		return err
	case "list":
		if err := parse(fs, args[1:]); err != nil {
			return err
		}
		return cli.h.ListStudents(*classID)
	case "delete":
		if len(args) < 2 {
			cli.printUsage()
			return errHelp
		}
		return cli.h.DeleteStudent(args[1])
	case "import":
		if err := parse(fs, args[1:]); err != nil {
			return err
		}
		if *classID == "" || fs.NArg() != 1 {
			fs.Usage()
			return errHelp
		}
		f, err := os.Open(fs.Arg(0))
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = cli.h.ImportRoster(*classID, f)
		return err
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) runEval(args []string) error {
	if len(args) == 0 {
		cli.printUsage()
		return errHelp
	}

	fs := cli.flagSet("eval " + args[0])
	switch args[0] {
	case "sequence":
		studentID := fs.String("student", "", "The student ID.")
		dist := fs.String("dist", string(models.DefaultDistribution), "Points split between AFLP4 and AFLP5: 4-4, 5-3, 6-2, 3-5 or 2-6.")
		aflp4 := fs.Int("aflp4", 0, "AFLP4 degree, 1 to 4.")
		aflp5 := fs.Int("aflp5", 0, "AFLP5 degree, 1 to 4.")
		if err := parse(fs, args[1:]); err != nil {
			return err
		}
		if *studentID == "" {
			fs.Usage()
			return errHelp
		}
		_, err := cli.h.SaveSequence(*studentID, evaluator.SequenceInput{
			Distribution: models.Distribution(*dist),
			AFLP4Degree:  *aflp4,
			AFLP5Degree:  *aflp5,
		})
		return err
	case "final":
		studentID := fs.String("student", "", "The student ID.")
		matches := fs.Int("matches", 0, "Matches played.")
		won := fs.Int("won", 0, "Matches won.")
		aflp2 := fs.Int("aflp2", 0, "AFLP2 degree, 1 to 4 (0 when not evaluated).")
		aflp1 := fs.String("aflp1", "", "AFLP1 score replacing the one suggested from the matches, 0 to 7.")
		aflp1Degree := fs.Int("aflp1-degree", 0, "AFLP1 degree replacing the one derived from the matches, 1 to 4.")
		if err := parse(fs, args[1:]); err != nil {
			return err
		}
		if *studentID == "" {
			fs.Usage()
			return errHelp
		}
		in := evaluator.FinalInput{TotalMatches: *matches, WonMatches: *won, AFLP1Degree: *aflp1Degree, AFLP2Degree: *aflp2}
		if *aflp1 != "" {
			score, err := strconv.ParseFloat(*aflp1, 64)
			if err != nil {
				return fmt.Errorf("invalid -aflp1 %q: %w", *aflp1, err)
			}
			in.AFLP1Score = &score
		}
		_, err := cli.h.SaveFinal(*studentID, in)
		return err
	case "suggest":
		matches := fs.Int("matches", 0, "Matches played.")
		won := fs.Int("won", 0, "Matches won.")
		if err := parse(fs, args[1:]); err != nil {
			return err
		}
		cli.h.Suggest(*won, *matches)
		return nil
	case "show":
		if len(args) < 2 {
			cli.printUsage()
			return errHelp
		}
		return cli.h.ShowEvaluation(args[1])
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) runExport(args []string) error {
	if len(args) == 0 {
		cli.printUsage()
		return errHelp
	}

	format := args[0]
	var defaultName string
	var export func(io.Writer) error
	switch format {
	case "csv":
		defaultName, export = report.CSVFileName, cli.h.ExportCSV
	case "xlsx":
		defaultName, export = report.XLSXFileName, cli.h.ExportXLSX
	case "json":
		defaultName, export = report.BackupFileName(cli.now()), cli.h.ExportJSON
	default:
		cli.printUsage()
		return errHelp
	}

	fs := cli.flagSet("export " + format)
	output := fs.String("o", defaultName, "Output file, - for stdout.")
	if err := parse(fs, args[1:]); err != nil {
		return err
	}

	if *output == "-" {
		return export(cli.out)
	}
	f, err := os.Create(*output)
	if err != nil {
		return err
	}
	if err := export(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Exported to %s\n", *output)
	return nil
}

func (cli *commandLine) runReset(args []string) error {
	fs := cli.flagSet("reset")
	yes := fs.Bool("yes", false, "Do not ask for confirmation.")
	if err := parse(fs, args); err != nil {
		return err
	}

	if !*yes {
		if !isTerminalFunc(cli.stdinFd) {
			return errors.New("refusing to reset without -yes: stdin is not a terminal")
		}
		fmt.Fprint(cli.out, "This deletes every class, student and evaluation. Type 'yes' to confirm: ")
		answer, err := bufio.NewReader(cli.in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		if strings.ToLower(strings.TrimSpace(answer)) != "yes" {
			return errAborted
		}
	}
	return cli.h.Reset()
}
