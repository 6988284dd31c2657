package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/dsoprea/go-logging"
	"github.com/jessevdk/go-flags"

	"github.com/jotarandom/go-hfsutils/driver"
	"github.com/jotarandom/go-hfsutils/fsck"
)

type rootParameters struct {
	Automatic  bool `short:"a" long:"automatic" description:"Answer every repair question affirmatively (alias for -y)"`
	Preen      bool `short:"p" long:"preen" description:"Answer every repair question affirmatively (alias for -y)"`
	Force      bool `short:"f" long:"force" description:"Check even if the volume appears clean"`
	NoRepair   bool `short:"n" long:"no-repair" description:"Report faults without repairing them"`
	Repair     bool `short:"r" long:"repair" description:"Repair faults found during the check"`
	Verbose    bool `short:"v" long:"verbose" description:"Report each phase and the faults it finds"`
	YesToAll   bool `short:"y" long:"yes" description:"Answer every repair question affirmatively"`
	Version    bool `long:"version" description:"Print the version and exit"`
	License    bool `long:"license" description:"Print the license text and exit"`
	Positional struct {
		Device    string `positional-arg-name:"DEVICE"`
		Partition string `positional-arg-name:"PARTITION"`
	} `positional-args:"yes"`
}

var rootArguments = new(rootParameters)

func ask(question string) bool {
	fmt.Fprintf(os.Stderr, "%s [y/n] ", question)

	reader := bufio.NewReader(os.Stdin)

	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	answer := strings.ToLower(strings.TrimSpace(line))

	return answer == "y" || answer == "yes"
}

func main() {
	defer func() {
		if state := recover(); state != nil {
			err := log.Wrap(state.(error))
			log.PrintError(err)
			os.Exit(driver.ExitFsckLibraryFailed)
		}
	}()

	p := flags.NewParser(rootArguments, flags.Default)

	_, err := p.Parse()
	if err != nil {
		os.Exit(driver.ExitFsckUsage)
	}

	if rootArguments.Version {
		fmt.Println(driver.Version)
		os.Exit(driver.ExitFsckClean)
	}

	if rootArguments.License {
		fmt.Println(driver.LicenseText)
		os.Exit(driver.ExitFsckClean)
	}

	if rootArguments.Positional.Device == "" {
		fmt.Fprintln(os.Stderr, "fsck: DEVICE is required")
		os.Exit(driver.ExitFsckUsage)
	}

	yesToAll := rootArguments.YesToAll || rootArguments.Automatic || rootArguments.Preen

	opts := fsck.Options{
		Repair:   rootArguments.Repair && !rootArguments.NoRepair,
		YesToAll: yesToAll,
		Verbose:  rootArguments.Verbose,
		Force:    rootArguments.Force,
	}

	progname := os.Args[0]

	report, err := driver.RunFsck(progname, os.Args, os.Environ(), rootArguments.Positional.Device, rootArguments.Positional.Partition, opts, ask, driver.DefaultExecv)
	if err != nil {
		log.PrintError(err)
	}

	if rootArguments.Verbose {
		for _, f := range report.Findings {
			fmt.Printf("[%s] %s: %s\n", f.Severity, f.Field, f.Message)
		}

		fmt.Printf("%d found, %d corrected\n", report.FoundCount(), report.CorrectedCount)
	}

	os.Exit(driver.FsckExitCode(report, err))
}
