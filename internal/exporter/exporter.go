// =============================================================================
// Visitor Export - Fixed-Format Exporter
// =============================================================================
//
// This module renders the visitor records and the shared metadata into the
// import file expected by the campus visitor system, and writes it to disk.
//
// FILE LAYOUT (every character is part of the import contract):
//   Lines 1-12 : Preamble, fixed text describing each column (LF-terminated)
//   Line  13   : Header, the 12 column names (CRLF-terminated)
//   Line  14+  : One comma-separated row per visitor (CRLF-terminated)
//
// ENCODING:
//   The file is GBK encoded. A value GBK cannot represent aborts the export.
//
// WRITE STRATEGY:
//   The complete file is rendered in memory and written atomically, so a
//   failed export never leaves a partial file at the destination.
//
// =============================================================================

package exporter

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/simplifiedchinese"

	"github.com/ginjaninja78/visitor-export/internal/normalizer"
	"github.com/ginjaninja78/visitor-export/internal/types"
	"github.com/ginjaninja78/visitor-export/pkg/utils"
)

// =============================================================================
// FORMAT CONSTANTS
// =============================================================================

// Preamble is the fixed block written before the header.
const Preamble = "" +
	"访问形式*：可填值：公务拜访或入校参观,,,,,,,,,,,\n" +
	"访客姓名*：访客姓名必填,,,,,,,,,,,\n" +
	"手机号*：手机号必填，以#号结尾,,,,,,,,,,,\n" +
	"证件类型*：证件类型必填 填写:身份证或护照,,,,,,,,,,,\n" +
	"证件号码*：证件号码必填，以#号结尾,,,,,,,,,,,\n" +
	"车辆号码：车辆号码选填,,,,,,,,,,,\n" +
	"审批人学工号：审批人学工号 公务拜访必填 /入校参观不填，以#号结尾,,,,,,,,,,,\n" +
	"审批人姓名：审批人姓名 公务拜访选填 /入校参观不填,,,,,,,,,,,\n" +
	"场所名称*：场所名称必填 公务拜访为拜访场所/入校参观为参观场所，多个用@号隔开，最小层级为校区，填写场所名称如下:东区@西区@北区@梅山校区,,,,,,,,,,,\n" +
	"访问开始时间*：访问开始时间必填，时间格式如下:2023-06-27 00:00#，以#结尾,,,,,,,,,,,\n" +
	"访问结束时间*：访问结束时间必填，时间格式如下:2023-06-30 23:00#，以#结尾,,,,,,,,,,,\n" +
	"拜访人及事由：拜访人及事由 公务拜访选填 /入校参观不填,,,,,,,,,,,\n"

// TimeLayout is the timestamp layout; the marker follows without a space.
const TimeLayout = "2006-01-02 15:04"

// Column names, in file order.
const (
	ColVisitType    = "访问形式*"
	ColName         = "访客姓名*"
	ColPhone        = "手机号*"
	ColIDType       = "证件类型*"
	ColIDNumber     = "证件号码*"
	ColPlate        = "车辆号码"
	ColApproverID   = "审批人学工号"
	ColApproverName = "审批人姓名"
	ColSites        = "场所名称*"
	ColStart        = "访问开始时间*"
	ColEnd          = "访问结束时间*"
	ColReason       = "拜访人及事由"
)

// Header is the column order of the import file.
var Header = []string{
	ColVisitType, ColName, ColPhone, ColIDType, ColIDNumber, ColPlate,
	ColApproverID, ColApproverName, ColSites, ColStart, ColEnd, ColReason,
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrPermission is matched by errors.Is when the destination is not writable.
var ErrPermission = errors.New("permission denied: cannot write to the selected location")

// ExportError wraps any failure of an export.
type ExportError struct {
	Path string
	Err  error
}

func (e *ExportError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("export failed: %v", e.Err)
	}
	return fmt.Sprintf("export to %s failed: %v", e.Path, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }

// Is reports permission failures as ErrPermission.
func (e *ExportError) Is(target error) bool {
	return target == ErrPermission && errors.Is(e.Err, fs.ErrPermission)
}

// EncodingError reports a value the file encoding cannot represent.
type EncodingError struct {
	Row    int // 1-based record index
	Column string
	Value  string
	Err    error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("record %d, column %s: value %q cannot be encoded as GBK", e.Row, e.Column, e.Value)
}

func (e *EncodingError) Unwrap() error { return e.Err }

// FieldError reports a value that would break the line structure.
type FieldError struct {
	Row    int // 1-based record index
	Column string
	Value  string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("record %d, column %s: value %q contains a line break", e.Row, e.Column, e.Value)
}

// =============================================================================
// EXPORTER
// =============================================================================

// Exporter renders and writes import files.
type Exporter struct {
	encoding encoding.Encoding
	perm     os.FileMode
}

// New returns an Exporter producing GBK files.
func New() *Exporter {
	return &Exporter{
		encoding: simplifiedchinese.GBK,
		perm:     0644,
	}
}

// Rows builds one output row per record, all sharing the metadata fields.
func Rows(records []types.VisitorRecord, meta types.SharedMetadata) [][]string {
	approverID := normalizer.ID(meta.ApproverID)
	sites := meta.Sites.String()
	start := meta.Start.Format(TimeLayout) + normalizer.Marker
	end := meta.End.Format(TimeLayout) + normalizer.Marker

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			string(meta.VisitType),
			r.Name,
			r.Phone,
			string(meta.IDType),
			r.IDNumber,
			r.Plate,
			approverID,
			meta.ApproverName,
			sites,
			start,
			end,
			meta.Reason,
		})
	}
	return rows
}

// Render produces the complete file content as UTF-8 text.
func (e *Exporter) Render(records []types.VisitorRecord, meta types.SharedMetadata) ([]byte, error) {
	rows := Rows(records, meta)
	if err := e.checkRows(rows); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString(Preamble)

	writeLine(&buf, Header)
	for _, row := range rows {
		writeLine(&buf, row)
	}

	return buf.Bytes(), nil
}

// writeLine writes one CRLF-terminated line. Only fields containing the
// separator or a quote are quoted; surrounding spaces are written as is.
func writeLine(buf *bytes.Buffer, fields []string) {
	for i, field := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		if !strings.ContainsAny(field, `,"`) {
			buf.WriteString(field)
			continue
		}
		buf.WriteByte('"')
		buf.WriteString(strings.ReplaceAll(field, `"`, `""`))
		buf.WriteByte('"')
	}
	buf.WriteString("\r\n")
}

// Encode converts rendered UTF-8 text into the file encoding.
func (e *Exporter) Encode(doc []byte) ([]byte, error) {
	out, err := e.encoding.NewEncoder().Bytes(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	return out, nil
}

// Export renders, encodes and atomically writes the import file to dest.
// Any failure is returned as an *ExportError.
func (e *Exporter) Export(records []types.VisitorRecord, meta types.SharedMetadata, dest string) error {
	doc, err := e.Render(records, meta)
	if err != nil {
		return &ExportError{Path: dest, Err: err}
	}

	encoded, err := e.Encode(doc)
	if err != nil {
		return &ExportError{Path: dest, Err: err}
	}

	if err := utils.WriteFileAtomic(dest, encoded, e.perm); err != nil {
		return &ExportError{Path: dest, Err: err}
	}

	return nil
}

// checkRows rejects line breaks and values outside the file encoding, naming
// the first offending record and column.
func (e *Exporter) checkRows(rows [][]string) error {
	enc := e.encoding.NewEncoder()

	for i, row := range rows {
		for j, value := range row {
			if strings.ContainsAny(value, "\r\n") {
				return &FieldError{Row: i + 1, Column: Header[j], Value: value}
			}
			if _, err := enc.String(value); err != nil {
				return &EncodingError{Row: i + 1, Column: Header[j], Value: value, Err: err}
			}
		}
	}

	return nil
}
