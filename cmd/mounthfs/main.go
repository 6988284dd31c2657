package main

import (
	"fmt"
	"os"

	"github.com/dsoprea/go-logging"
	"github.com/jessevdk/go-flags"

	"github.com/jotarandom/go-hfsutils/device"
	"github.com/jotarandom/go-hfsutils/driver"
	"github.com/jotarandom/go-hfsutils/sig"
)

type rootParameters struct {
	ReadOnly   bool   `short:"r" long:"read-only" description:"Mount read-only"`
	ReadWrite  bool   `short:"w" long:"read-write" description:"Mount read-write"`
	MountOpts  string `short:"o" long:"options" description:"Extra mount options, comma-separated"`
	Verbose    bool   `short:"v" long:"verbose" description:"Report what is about to be mounted"`
	Version    bool   `long:"version" description:"Print the version and exit"`
	License    bool   `long:"license" description:"Print the license text and exit"`
	Positional struct {
		Device     string `positional-arg-name:"DEVICE"`
		Mountpoint string `positional-arg-name:"MOUNTPOINT"`
	} `positional-args:"yes"`
}

var rootArguments = new(rootParameters)

const exitUsage = 2
const exitOperational = 4

func main() {
	defer func() {
		if state := recover(); state != nil {
			err := log.Wrap(state.(error))
			log.PrintError(err)
			os.Exit(exitOperational)
		}
	}()

	p := flags.NewParser(rootArguments, flags.Default)

	_, err := p.Parse()
	if err != nil {
		os.Exit(exitUsage)
	}

	if rootArguments.Version {
		fmt.Println(driver.Version)
		os.Exit(0)
	}

	if rootArguments.License {
		fmt.Println(driver.LicenseText)
		os.Exit(0)
	}

	if rootArguments.Positional.Device == "" || rootArguments.Positional.Mountpoint == "" {
		fmt.Fprintln(os.Stderr, "mount: DEVICE and MOUNTPOINT are required")
		os.Exit(exitUsage)
	}

	_, fsType, _ := driver.InferProgram(os.Args[0])

	readOnly := rootArguments.ReadOnly && !rootArguments.ReadWrite

	mode := device.ReadWrite
	if readOnly {
		mode = device.ReadOnly
	}

	h, err := device.Open(rootArguments.Positional.Device, mode)
	if err != nil {
		log.PrintError(err)
		os.Exit(exitOperational)
	}
	defer h.Close()

	detected, err := sig.Detect(h)
	if err != nil {
		log.PrintError(err)
		os.Exit(exitOperational)
	}

	if detected == sig.Unknown {
		fmt.Fprintf(os.Stderr, "mount: %s carries no recognizable HFS/HFS+ signature\n", rootArguments.Positional.Device)
		os.Exit(exitOperational)
	}

	if fsType.String() == "HFS" && detected.IsHFSPlusFamily() {
		fmt.Fprintf(os.Stderr, "mount: %s is %s; use mount.hfs+\n", rootArguments.Positional.Device, detected)
		os.Exit(exitOperational)
	}

	if rootArguments.Verbose {
		fmt.Fprintf(os.Stderr, "mounting %s (%s) at %s\n", rootArguments.Positional.Device, detected, rootArguments.Positional.Mountpoint)
	}

	if err := mountKernel(rootArguments.Positional.Device, rootArguments.Positional.Mountpoint, detected, readOnly, rootArguments.MountOpts); err != nil {
		log.PrintError(err)
		os.Exit(exitOperational)
	}
}
