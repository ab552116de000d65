package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: folio <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  serve      Run the HTTP API")
	fmt.Fprintln(w, "  worker     Run the deferred deletion worker")
	fmt.Fprintln(w, "  render     Render an export request to PDF or HTML")
	fmt.Fprintln(w, "  doctor     Check browser, configuration and backends")
	fmt.Fprintln(w, "  passwd     Hash a password read from stdin")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'folio help <command>' for details on a specific command.")
}

func printCommonFlags(w io.Writer) {
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path (default \"folio\")")
	fmt.Fprintln(w, "  -v, --verbose             Debug logging")
}

func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: folio serve [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run the HTTP API until SIGINT or SIGTERM, then drain in-flight requests.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --addr <host:port>    Listen address (overrides server.addr)")
	fmt.Fprintln(w, "      --memory              Keep data in memory instead of MongoDB and Redis")
	fmt.Fprintln(w, "      --worker              Run the deletion worker in-process")
	printCommonFlags(w)
}

func printWorkerUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: folio worker [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Delete temporary exports when their retention window ends.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --concurrency <n>     Concurrent deletion jobs (default 2)")
	printCommonFlags(w)
}

func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: folio render -i <request.json|request.yaml> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render a CV export request without the HTTP API.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -i, --input <path>        Export request, JSON or YAML by extension (- for stdin, JSON)")
	fmt.Fprintln(w, "  -o, --output <path>       Output file")
	fmt.Fprintln(w, "      --dark                Dark theme")
	fmt.Fprintln(w, "      --html                Write the assembled HTML instead of a PDF")
	fmt.Fprintln(w, "      --date <s>            Date: \"auto\", \"auto:FORMAT\", or literal")
	fmt.Fprintln(w, "                            Tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D")
	fmt.Fprintln(w, "  -t, --timeout <d>         PDF generation timeout (e.g., 30s, 2m)")
	printCommonFlags(w)
}

func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: folio doctor [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check the environment. Exits 1 when errors are found.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --json                Print the report as JSON")
	fmt.Fprintln(w, "      --launch              Launch the browser and render a probe page")
	printCommonFlags(w)
}

func printPasswdUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: folio passwd < password.txt")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Read a password on stdin and print its bcrypt hash for auth.passwordHash.")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "serve":
		printServeUsage(env.Stdout)
	case "worker":
		printWorkerUsage(env.Stdout)
	case "render":
		printRenderUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "passwd":
		printPasswdUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: folio version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: folio help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
