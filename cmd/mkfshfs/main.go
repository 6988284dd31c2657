package main

import (
	"fmt"
	"os"

	"github.com/dsoprea/go-logging"
	"github.com/jessevdk/go-flags"

	"github.com/jotarandom/go-hfsutils/driver"
	"github.com/jotarandom/go-hfsutils/mkfs"
)

type rootParameters struct {
	Force      bool   `short:"f" long:"force" description:"Format even if the device is partitioned or already holds a filesystem"`
	Label      string `short:"l" long:"label" description:"Volume label"`
	FSType     string `short:"t" long:"type" description:"Filesystem type: hfs or hfs+" choice:"hfs" choice:"hfs+"`
	Verbose    bool   `short:"v" long:"verbose" description:"Report progress"`
	Version    bool   `long:"version" description:"Print the version and exit"`
	License    bool   `long:"license" description:"Print the license text and exit"`
	Positional struct {
		Device    string `positional-arg-name:"DEVICE"`
		Partition string `positional-arg-name:"PARTITION"`
	} `positional-args:"yes"`
}

var rootArguments = new(rootParameters)

func main() {
	defer func() {
		if state := recover(); state != nil {
			err := log.Wrap(state.(error))
			log.PrintError(err)
			os.Exit(driver.ExitMkfsGeneral)
		}
	}()

	p := flags.NewParser(rootArguments, flags.Default)

	_, err := p.Parse()
	if err != nil {
		os.Exit(driver.ExitMkfsUsage)
	}

	if rootArguments.Version {
		fmt.Println(driver.Version)
		os.Exit(driver.ExitMkfsSuccess)
	}

	if rootArguments.License {
		fmt.Println(driver.LicenseText)
		os.Exit(driver.ExitMkfsSuccess)
	}

	if rootArguments.Positional.Device == "" {
		fmt.Fprintln(os.Stderr, "mkfs: DEVICE is required")
		os.Exit(driver.ExitMkfsUsage)
	}

	fsType := mkfs.HFS
	if rootArguments.FSType == "hfs+" {
		fsType = mkfs.HFSPlus
	}

	opts := mkfs.Options{
		Label:   rootArguments.Label,
		FSType:  fsType,
		Force:   rootArguments.Force,
		Verbose: rootArguments.Verbose,
	}

	progname := os.Args[0]

	err = driver.RunMkfs(progname, rootArguments.Positional.Device, rootArguments.Positional.Partition, opts, rootArguments.FSType != "")
	if err != nil {
		log.PrintError(err)
	}

	os.Exit(driver.MkfsExitCode(err))
}
