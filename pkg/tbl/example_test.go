package tbl_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/featuretable/pkg/annotation"
	"github.com/matzehuels/featuretable/pkg/tbl"
)

func ExampleCoordinates() {
	first, second, _ := tbl.Coordinates(5, 8, annotation.StrandReverse, annotation.TruncationThreePrime)
	fmt.Println(first, second)
	// Output: 8 >6
}

func ExampleResultsToString() {
	var attrs annotation.Attributes
	attrs.Add("gene", "E")
	attrs.Add("product", "envelope protein")

	gm := &annotation.GeneMap{Genes: []*annotation.Gene{{
		Name:       "E",
		SeqID:      "MN908947.3",
		Start:      26244,
		End:        26472,
		Strand:     annotation.StrandForward,
		Attributes: attrs,
	}}}

	out, err := tbl.ResultsToString([]annotation.Result{{SeqName: "sample", Annotation: gm}})
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, line := range strings.Split(strings.TrimSuffix(out, "\n"), "\n") {
		fmt.Printf("%q\n", line)
	}
	// Output:
	// ">Feature MN908947.3"
	// "26245\t26472\tgene"
	// "\t\t\tgene\tE"
	// "\t\t\tproduct\tenvelope protein"
}
