package driver

// ExecvFunc replaces the current process image with progname, passing
// argv and envv, the way syscall.Exec does. It is injectable so
// fsck.hfs's auto-delegation to fsck.hfs+ on an HFS+/HFSX signature
// can be tested without actually replacing the test binary.
type ExecvFunc func(progname string, argv []string, envv []string) error
