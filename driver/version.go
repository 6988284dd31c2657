package driver

// Version is the version string every cmd/ entry point reports for
// --version.
const Version = "1.0.0"

// LicenseText is the text every cmd/ entry point prints for --license.
const LicenseText = "go-hfsutils carries no bundled license text; see the project's LICENSE file."
