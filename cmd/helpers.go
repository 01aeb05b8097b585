// =============================================================================
// Visitor Export - Command Helpers
// =============================================================================
//
// Flag parsing shared by the generate and preview commands, and the mapping
// from pipeline errors to operator-facing messages.
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ginjaninja78/visitor-export/internal/config"
	"github.com/ginjaninja78/visitor-export/internal/exporter"
	"github.com/ginjaninja78/visitor-export/internal/generator"
	"github.com/ginjaninja78/visitor-export/internal/records"
	"github.com/ginjaninja78/visitor-export/internal/types"
	"github.com/ginjaninja78/visitor-export/internal/validation"
)

// Accepted --start / --end layouts. A bare date takes the configured default
// time of day.
const (
	dateTimeLayout = "2006-01-02 15:04"
	dateLayout     = "2006-01-02"
	clockLayout    = "15:04"
)

// =============================================================================
// VISITOR FLAGS
// =============================================================================

// parseVisitor parses a --visitor value of the form "name,phone,id[,plate]".
// The Chinese comma is accepted as a separator as well.
func parseVisitor(value string) (records.ManualEntry, error) {
	parts := strings.Split(strings.ReplaceAll(value, "，", ","), ",")
	if len(parts) < 3 || len(parts) > 4 {
		return records.ManualEntry{}, fmt.Errorf("invalid --visitor %q: want name,phone,id[,plate]", value)
	}

	entry := records.ManualEntry{
		Name:  parts[0],
		Phone: parts[1],
		ID:    parts[2],
	}
	if len(parts) == 4 {
		entry.Plate = parts[3]
	}
	return entry, nil
}

// loadVisitors imports inputFile (if any) and then appends every manual entry.
func loadVisitors(g *generator.Generator, inputFile string, visitors []string) error {
	if inputFile != "" {
		if _, err := g.ImportFile(inputFile); err != nil {
			return err
		}
	}

	for _, v := range visitors {
		entry, err := parseVisitor(v)
		if err != nil {
			return err
		}
		if _, err := g.AddVisitor(entry); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// METADATA FLAGS
// =============================================================================

// metadataFlags holds the raw shared-metadata flag values.
type metadataFlags struct {
	visitType    string
	idType       string
	approverID   string
	approverName string
	reason       string
	sites        []string
	start        string
	end          string
}

// buildMetadata converts the flag values into SharedMetadata, falling back to
// the configured defaults for visit type, id type, sites and time of day.
func buildMetadata(f metadataFlags, defaults config.Defaults, loc *time.Location) (types.SharedMetadata, error) {
	var (
		meta types.SharedMetadata
		err  error
	)

	visitType := f.visitType
	if visitType == "" {
		visitType = defaults.VisitType
	}
	if meta.VisitType, err = types.ParseVisitType(visitType); err != nil {
		return meta, err
	}

	idType := f.idType
	if idType == "" {
		idType = defaults.IDType
	}
	if meta.IDType, err = types.ParseIDType(idType); err != nil {
		return meta, err
	}

	sites := f.sites
	if len(sites) == 0 {
		sites = defaults.Sites
	}
	meta.Sites = types.NewSiteSet()
	for _, raw := range sites {
		for _, name := range strings.Split(raw, "@") {
			if strings.TrimSpace(name) == "" {
				continue
			}
			site, err := types.ParseSite(name)
			if err != nil {
				return meta, err
			}
			meta.Sites.Add(site)
		}
	}

	if f.start != "" {
		if meta.Start, err = parseDateTime(f.start, defaults.StartTime, loc); err != nil {
			return meta, fmt.Errorf("--start: %w", err)
		}
	}
	if f.end != "" {
		if meta.End, err = parseDateTime(f.end, defaults.EndTime, loc); err != nil {
			return meta, fmt.Errorf("--end: %w", err)
		}
	}

	meta.ApproverID = strings.TrimSpace(f.approverID)
	meta.ApproverName = strings.TrimSpace(f.approverName)
	meta.Reason = strings.TrimSpace(f.reason)

	return meta, nil
}

// parseDateTime reads "YYYY-MM-DD HH:MM" (or the "T" separated form), or a
// bare "YYYY-MM-DD" completed with defaultClock.
func parseDateTime(value, defaultClock string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)

	for _, layout := range []string{dateTimeLayout, "2006-01-02T15:04"} {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}

	day, err := time.ParseInLocation(dateLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: want YYYY-MM-DD HH:MM", value)
	}
	clock, err := time.Parse(clockLayout, defaultClock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid default time of day %q", defaultClock)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, loc), nil
}

// =============================================================================
// ERROR MESSAGES
// =============================================================================

// describeError renders pipeline errors the way operators expect to read
// them. Unknown errors are returned as is.
func describeError(err error) string {
	var (
		missingCols   *records.MissingColumnsError
		missingFields *records.MissingFieldsError
		verr          *validation.ValidationError
		encErr        *exporter.EncodingError
	)

	switch {
	case errors.As(err, &missingCols):
		return fmt.Sprintf("文件中缺少以下列: %s", strings.Join(missingCols.Columns, ", "))
	case errors.As(err, &missingFields):
		return "访客姓名、手机号和证件号码不能为空！"
	case errors.Is(err, records.ErrEmptyBatch):
		return "文件中没有访客数据。"
	case errors.Is(err, generator.ErrUnsupportedInput):
		return fmt.Sprintf("不支持的文件类型: %v", err)
	case errors.As(err, &verr):
		return describeValidation(verr)
	case errors.Is(err, exporter.ErrPermission):
		return "权限错误：无法写入所选位置。请尝试选择其他文件夹。"
	case errors.As(err, &encErr):
		return fmt.Sprintf("第 %d 行 %s 含有无法用 GBK 编码的字符: %q", encErr.Row, encErr.Column, encErr.Value)
	}
	return err.Error()
}

func describeValidation(verr *validation.ValidationError) string {
	switch {
	case errors.Is(verr, validation.ErrNoRecords):
		return "访客列表为空，请先导入或添加访客！"
	case errors.Is(verr, validation.ErrMissingMetadata):
		return fmt.Sprintf("请填写所有必填信息，并至少选择一个场所！(%s)", strings.Join(verr.Fields, ", "))
	case errors.Is(verr, validation.ErrStartInPast):
		return "访问开始时间不能早于当前时间！"
	case errors.Is(verr, validation.ErrEndNotAfterStart):
		return "结束时间必须晚于开始时间！"
	case errors.Is(verr, validation.ErrIncompleteRecord):
		return fmt.Sprintf("第 %d 位访客信息不完整: %s", verr.RecordIndex, strings.Join(verr.Fields, ", "))
	}
	return verr.Error()
}
