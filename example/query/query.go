package main

import (
	"flag"
	"fmt"
	"log"

	framemeta "github.com/swdee/go-framemeta"
	"github.com/swdee/go-framemeta/query"
)

func main() {
	// disable logging timestamps
	log.SetFlags(0)

	queryDoc := flag.String("q",
		`{"and":[{"parent_defined":null},{"confidence":{"ge":0.5}}]}`,
		"Match query as a JSON document")

	flag.Parse()

	q, err := query.FromJSON(*queryDoc)

	if err != nil {
		log.Fatalf("parse query: %v", err)
	}

	f := framemeta.GenFrame()

	view := f.AccessObjects(q)

	fmt.Printf("matched %d of %d objects\n", view.Len(), f.ObjectCount())

	for i := 0; i < view.Len(); i++ {
		o := view.At(i)

		conf := "unset"

		if c, ok := o.GetConfidence(); ok {
			conf = fmt.Sprintf("%.2f", c)
		}

		fmt.Printf("  id=%d %s.%s confidence=%s\n",
			o.GetID(), o.GetNamespace(), o.GetLabel(), conf)
	}

	// show the same query in its YAML form
	doc, err := q.ToYAML()

	if err != nil {
		log.Fatalf("render query: %v", err)
	}

	fmt.Printf("query as yaml:\n%s", doc)
}
