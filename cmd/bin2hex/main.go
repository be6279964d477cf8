package main

import (
	"encoding/json"
	"flag"
	"io"
	"log"
	"os"

	"github.com/anupcshan/acutool/intelhex"
)

func main() {
	in := flag.String("in", "", "Input bin file")
	out := flag.String("out", "", "Output hex file (default stdout)")
	width := flag.Int("width", intelhex.DefaultRecordWidth, "Data bytes per record")

	flag.Parse()

	log.SetFlags(log.Lmicroseconds | log.Lshortfile)

	f, err := os.Open(*in)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		log.Fatal(err)
	}

	// A records file left by hex2bin restores the original framing.
	records := intelhex.DataRecords(fi.Size(), *width)
	if recordsF, err := os.Open(*in + ".records"); err == nil {
		records = nil
		dec := json.NewDecoder(recordsF)
		if err := dec.Decode(&records); err != nil {
			log.Fatal(err)
		}
		_ = recordsF.Close()
		log.Printf("Replaying %d records from %s.records", len(records), *in)
	}

	var w io.Writer = os.Stdout
	if *out != "" {
		outF, err := os.OpenFile(*out, os.O_CREATE|os.O_RDWR|os.O_TRUNC, 0644)
		if err != nil {
			log.Fatal(err)
		}
		defer outF.Close()
		w = outF
	}

	encoder := intelhex.NewEncoder(f, w, records)
	if err := encoder.EncodeRecords(); err != nil {
		log.Fatal(err)
	}
}
