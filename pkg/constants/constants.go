package constants

// CLIName is the name used in user-facing output to refer to the CLI
const CLIName = "jsonv"
