package tbl

import (
	"github.com/matzehuels/featuretable/pkg/annotation"
)

// writeQualifiers emits one row per (key, value) pair in stored order.
func writeQualifiers(sink RecordSink, attrs annotation.Attributes) error {
	for _, attr := range attrs {
		for _, value := range attr.Values {
			if err := writeQualifier(sink, attr.Key, value); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeQualifier(sink RecordSink, key, value string) error {
	return sink.WriteRecord([]string{"", "", "", key, value})
}
