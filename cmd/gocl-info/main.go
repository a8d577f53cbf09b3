// gocl-info probes a compute backend and prints the capability record of
// every device it exposes. It is the quickest way to check that a backend,
// its driver and its kernel translator are correctly set up:
//
//	gocl-info -backend cuda:devices=2,arch=sm_80
//
// Without -backend the GOCL_BACKEND environment variable selects the
// backend, falling back to the default.
package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gocl-dev/gocl"
	_ "github.com/gocl-dev/gocl/cuda"
	"github.com/janpfeifer/must"
	"k8s.io/klog/v2"
)

var flagBackend = flag.String("backend", "",
	fmt.Sprintf("Backend selection string, \"name\" or \"name:config\". "+
		"Defaults to the %s environment variable, then to %q. Linked in: %s.",
		gocl.BackendEnv, gocl.DefaultBackend, strings.Join(gocl.List(), ", ")))

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	var backend gocl.Backend
	if *flagBackend != "" {
		backend = must.M1(gocl.NewWithConfig(*flagBackend))
	} else {
		backend = must.M1(gocl.New())
	}

	n := backend.Probe()
	fmt.Printf("%s: %d device(s)\n", backend.Name(), n)
	for id := 0; id < n; id++ {
		d := &gocl.Device{ID: id, GlobalMemID: id}
		backend.Init(d)
		printDevice(d)
		backend.Uninit(d)
	}
}

func printDevice(d *gocl.Device) {
	info := d.Info
	fmt.Printf("device #%d: %s (%s)\n", d.ID, info.Name, info.Arch)
	fmt.Printf("\tcompute capability %d.%d, %d compute units @ %d MHz\n",
		info.ComputeCapability[0], info.ComputeCapability[1],
		info.ComputeUnits, info.ClockRateKHz/1000)
	fmt.Printf("\tglobal memory %s, max allocation %s, ECC %v\n",
		humanize.IBytes(info.GlobalMemSize), humanize.IBytes(info.MaxAllocSize), info.ECC)
	fmt.Printf("\tlocal memory %s (dedicated %v), constant memory %s\n",
		humanize.IBytes(info.LocalMemSize), info.DedicatedLocalMem, humanize.IBytes(info.ConstantMemSize))
	fmt.Printf("\tmax work-group size %d, max work-item sizes %v\n",
		info.MaxWorkGroupSize, info.MaxWorkItemSizes)
	fmt.Printf("\ttarget %s, %d-bit addressing, image support %v\n",
		info.TargetTriple, info.AddressBits, info.ImageSupport)
}
