// Package smsxml reads SMS-backup XML exports and feeds raw message
// records into the engine. This is the input boundary: the engine never
// sees XML, only RawMessage values.
package smsxml

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/xmlpath.v2"

	"momo-etl/internal/logging"
	"momo-etl/internal/models"
	"momo-etl/internal/normalize"
	"momo-etl/internal/parsererror"
)

var (
	smsPath     = xmlpath.MustCompile("//sms")
	bodyPath    = xmlpath.MustCompile("@body")
	datePath    = xmlpath.MustCompile("@date")
	addressPath = xmlpath.MustCompile("@address")
)

// Reader parses SMS-backup XML exports.
type Reader struct {
	logger logging.Logger
}

// NewReader creates a Reader.
func NewReader(logger logging.Logger) *Reader {
	return &Reader{logger: logger}
}

// Parse extracts every sms element from the export. Messages without a
// body are skipped with a warning; a missing or unparseable date leaves
// the zero timestamp, which the dispatcher replaces from message text when
// available. The source id is sms[<n>] by document order.
func (r *Reader) Parse(reader io.Reader) ([]models.RawMessage, error) {
	root, err := xmlpath.Parse(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to parse XML: %w", err)
	}

	var messages []models.RawMessage
	index := 0
	iter := smsPath.Iter(root)
	for iter.Next() {
		node := iter.Node()
		index++

		body, ok := bodyPath.String(node)
		if !ok || body == "" {
			r.logger.Warn("sms element without body skipped",
				logging.F(logging.FieldMessageID, smsSourceID(index)))
			continue
		}

		msg := models.RawMessage{
			Body:     body,
			SourceID: smsSourceID(index),
		}

		if rawDate, ok := datePath.String(node); ok {
			if ts, err := normalize.Timestamp(rawDate); err == nil {
				msg.Timestamp = ts
			} else {
				r.logger.Warn("unparseable sms timestamp",
					logging.F(logging.FieldMessageID, msg.SourceID),
					logging.F("raw", rawDate))
			}
		}
		if address, ok := addressPath.String(node); ok && address != "" {
			msg.SourceID = msg.SourceID + ":" + address
		}

		messages = append(messages, msg)
	}

	return messages, nil
}

// ParseFile opens and parses an export file.
func (r *Reader) ParseFile(path string) ([]models.RawMessage, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &parsererror.InputError{Path: path, Msg: "cannot open export", Err: err}
	}
	defer func() {
		if err := file.Close(); err != nil {
			r.logger.WithError(err).Warn("failed to close input file")
		}
	}()

	messages, err := r.Parse(file)
	if err != nil {
		return nil, &parsererror.InputError{Path: path, Msg: "invalid export", Err: err}
	}

	r.logger.Info("export parsed",
		logging.F(logging.FieldInputFile, path),
		logging.F(logging.FieldCount, len(messages)))
	return messages, nil
}

func smsSourceID(index int) string {
	return fmt.Sprintf("sms[%d]", index)
}
