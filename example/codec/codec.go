package main

import (
	"flag"
	"fmt"
	"log"

	framemeta "github.com/swdee/go-framemeta"
	"github.com/swdee/go-framemeta/attribute"
	"github.com/swdee/go-framemeta/codec"
)

func main() {
	// disable logging timestamps
	log.SetFlags(0)

	outFile := flag.String("o", "/tmp/frame.msg", "File to write the encoded message to")
	pretty := flag.Bool("j", false, "Print the decoded frame as indented JSON")

	flag.Parse()

	f := framemeta.GenFrame()

	f.SetContent(framemeta.ExternalContent("s3", "bucket/demo-frame"))
	f.SetAttribute(attribute.New("meta", "pipeline", attribute.String("demo")))

	c := codec.Codec{Checksum: true}

	if err := c.Save(*outFile, codec.NewVideoFrameMessage(f)); err != nil {
		log.Fatalf("save message: %v", err)
	}

	m, err := c.Load(*outFile)

	if err != nil {
		log.Fatalf("load message: %v", err)
	}

	restored, ok := m.AsVideoFrame()

	if !ok {
		log.Fatalf("unexpected payload kind %v", m.Kind())
	}

	fmt.Printf("wrote %s and read it back\n", *outFile)
	fmt.Printf("uuid preserved: %v\n", restored.GetUUID() == f.GetUUID())
	fmt.Printf("objects: %d\n", restored.ObjectCount())

	if *pretty {
		doc, err := codec.FrameToJSONPretty(restored)

		if err != nil {
			log.Fatalf("render frame: %v", err)
		}

		fmt.Println(doc)
	}
}
