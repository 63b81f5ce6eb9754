// nodectl inspects a node's retention snapshot from the host: the crash
// log, the persisted state block, and the diagnostic counters. Point it
// at the same file the firmware checkpoints into.
//
//	nodectl [snapshot-file]
package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/google/shlex"

	"github.com/jtn0123/ESP32-Temp-Sensor-sub003/retention"
)

func main() {
	path := "node-retention.bin"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	backing := retention.NewFileBacking(path)
	dom, err := retention.Open(backing)
	if err != nil {
		fmt.Fprintln(os.Stderr, "nodectl:", err)
		os.Exit(1)
	}
	if dom.FreshBoot() {
		fmt.Println("no usable snapshot at", path, "(showing empty domain)")
	}

	sc := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")
	for sc.Scan() {
		args, err := shlex.Split(sc.Text())
		if err != nil {
			fmt.Println("parse error:", err)
			fmt.Print("> ")
			continue
		}
		if len(args) == 0 {
			fmt.Print("> ")
			continue
		}
		if !run(dom, args) {
			return
		}
		fmt.Print("> ")
	}
}

// run dispatches one command; returns false to exit.
func run(dom *retention.Domain, args []string) bool {
	switch args[0] {
	case "state":
		printState(dom.State)
	case "logs":
		dom.Log.Dump(func(e retention.Entry) {
			fmt.Printf("%10d [%s] m%d #%d %s\n",
				e.Timestamp, e.Level, e.Module, e.Seq, e.MessageString())
		})
	case "stats":
		fmt.Println("log entries:   ", dom.Log.Len())
		fmt.Println("log overflow:  ", dom.Log.OverflowCount())
		fmt.Println("log corruption:", dom.Log.CorruptionCount())
		fmt.Println("state corruption:", dom.State.CorruptionCount())
	case "clear":
		dom.Log.Clear()
		if err := dom.Checkpoint(); err != nil {
			fmt.Println("checkpoint:", err)
		} else {
			fmt.Println("log cleared")
		}
	case "reset":
		dom.State.InitializeOrResume(nil)
		dom.Log.Clear()
		if err := dom.Checkpoint(); err != nil {
			fmt.Println("checkpoint:", err)
		} else {
			fmt.Println("state and log reset")
		}
	case "quit", "exit":
		return false
	case "help":
		fmt.Println("commands: state  logs  stats  clear  reset  quit")
	default:
		fmt.Println("unknown command:", args[0], "(try help)")
	}
	return true
}

func printState(st *retention.Store) {
	fmt.Println("wake count:     ", st.WakeCount())
	fmt.Println("partial counter:", st.PartialCounter())
	fmt.Println("full-only mode: ", st.FullOnlyMode())
	fmt.Println("has changed:    ", st.HasChanged())
	fmt.Println("inside:         ", st.LastInsideTempF(), "F /", st.LastInsideRH(), "deci-%RH")
	fmt.Println("outside:        ", st.LastOutsideTempF(), "F /", st.LastOutsideRH(), "deci-%RH")
	fmt.Println("pressure:       ", st.LastPressure(), "hPa")
	fmt.Println("battery:        ", st.LastBatteryPct(), "%")
	fmt.Println("weather crc:    ", st.LastWeatherCRC())
	fmt.Println("status crc:     ", st.LastStatusCRC())
	fmt.Println("last wake ms:   ", st.WakeTimeMs())
}
