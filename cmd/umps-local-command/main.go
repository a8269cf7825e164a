// Command umps-local-command is a small CLI client for a module's local
// command socket (spec §4.7): it sends one CommandRequest (or, with
// -commands/-terminate, the matching request) and prints the reply.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/uofuseismo/umps/internal/messaging"
	"github.com/uofuseismo/umps/internal/requestors"
)

func main() {
	address := flag.String("address", "", "Address of the module's local command socket")
	command := flag.String("command", "", "Command text to send")
	listCommands := flag.Bool("commands", false, "List the module's available commands instead of sending -command")
	terminate := flag.Bool("terminate", false, "Ask the module to terminate instead of sending -command")
	timeout := flag.Duration("timeout", 5*time.Second, "Time to wait for a reply")
	flag.Parse()

	if *address == "" {
		fmt.Fprintln(os.Stderr, "-address is required")
		os.Exit(1)
	}

	ctx := messaging.NewContext(1)
	defer ctx.Close()

	requestor := requestors.NewCommandRequestor()
	if err := requestor.Initialize(ctx, messaging.RequestOptions{Address: *address, TimeOut: *timeout}); err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect to %s: %v\n", *address, err)
		os.Exit(1)
	}
	defer requestor.Close()

	switch {
	case *listCommands:
		help, err := requestor.Commands()
		if err != nil {
			fmt.Fprintf(os.Stderr, "request failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(help)
	case *terminate:
		if err := requestor.Terminate(); err != nil {
			fmt.Fprintf(os.Stderr, "request failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("terminate acknowledged")
	case *command != "":
		result, err := requestor.Execute(*command)
		if err != nil {
			fmt.Fprintf(os.Stderr, "request failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(result)
	default:
		fmt.Fprintln(os.Stderr, "one of -command, -commands, or -terminate is required")
		os.Exit(1)
	}
}
