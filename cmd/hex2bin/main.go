package main

import (
	"encoding/json"
	"flag"
	"io"
	"log"
	"os"

	"github.com/anupcshan/acutool/eeprom"
	"github.com/anupcshan/acutool/intelhex"
	"github.com/anupcshan/acutool/membuf"
)

func main() {
	in := flag.String("in", "", "Input hex file")
	out := flag.String("out", "", "Output bin file (default stdout)")
	size := flag.Int64("size", eeprom.Size, "Pad or truncate the image to this many bytes (0 keeps the parsed length)")
	records := flag.Bool("records", false, "Also write the parsed record framing to <out>.records")

	flag.Parse()

	log.SetFlags(log.Lmicroseconds | log.Lshortfile)

	f, err := os.Open(*in)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	mbuf := membuf.NewMemBuffer()
	parser := intelhex.NewParser(f, mbuf, intelhex.WithDisableCompactOutput())
	for parser.HasNext() {
		if err := parser.ReadRecord(); err != nil {
			log.Fatal(err)
		}
	}

	if *out == "" {
		_, _ = io.Copy(os.Stdout, mbuf.Reader(*size))
		return
	}

	data := mbuf.Bytes(*size)
	if err := os.WriteFile(*out, data, 0644); err != nil {
		log.Fatal(err)
	}
	log.Printf("Wrote %d bytes to %s", len(data), *out)

	if *records {
		recordsF, err := os.OpenFile(*out+".records", os.O_CREATE|os.O_RDWR|os.O_TRUNC, 0644)
		if err != nil {
			log.Fatal(err)
		}

		enc := json.NewEncoder(recordsF)
		if err := enc.Encode(parser.Records); err != nil {
			log.Fatal(err)
		}
		_ = recordsF.Close()
	}
}
