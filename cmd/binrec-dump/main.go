// Package main provides a command-line utility to inspect binrec manifests.
// It prints the compiled layout of a record and can decode a binary file
// against it for debugging.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/scigolib/binrec"
)

func main() {
	manifestPath := flag.String("manifest", "", "Path to the YAML record manifest")
	recordName := flag.String("record", "", "Record to dump (default: every record)")
	decodePath := flag.String("decode", "", "Binary file to decode against the record")
	flag.Parse()

	if *manifestPath == "" {
		fmt.Println("Usage: binrec-dump -manifest <file.yaml> [-record <name>] [-decode <file.bin>]")
		fmt.Println("Flags:")
		flag.PrintDefaults()
		return
	}

	m, err := binrec.LoadManifestFile(*manifestPath)
	if err != nil {
		log.Fatalf("Failed to load manifest: %v", err)
	}

	names := m.Names()
	if *recordName != "" {
		if _, ok := m.Record(*recordName); !ok {
			log.Fatalf("Record %q not found in manifest (have: %v)", *recordName, names)
		}
		names = []string{*recordName}
	}

	for _, name := range names {
		rec, _ := m.Record(name)
		dumpLayout(name, rec)
	}

	if *decodePath != "" {
		if *recordName == "" {
			log.Fatalf("-decode requires -record")
		}
		rec, _ := m.Record(*recordName)
		decodeFile(rec, *decodePath)
	}
}

func dumpLayout(name string, rec *binrec.Record) {
	fmt.Printf("record %s (%s, %d bytes)\n", name, rec.Order(), rec.Width())
	for _, fl := range rec.Layout() {
		fmt.Printf("  %-20s %-8s offset=%-4d width=%d\n", fl.Name, fl.Kind, fl.Offset, fl.Width)
	}
	fmt.Println()
}

func decodeFile(rec *binrec.Record, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Failed to read file: %v", err)
	}
	if len(data) != rec.Width() {
		log.Fatalf("File is %d bytes, record width is %d", len(data), rec.Width())
	}

	values, err := rec.UnpackRaw(data)
	if err != nil {
		log.Fatalf("Decode failed: %v", err)
	}

	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Printf("decoded %d bytes:\n", len(data))
	for _, name := range names {
		fmt.Printf("  %-20s %v\n", name, values[name])
	}
}
