package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/YeswanthKasi/schmng-sub002/internal/dto"
	"github.com/YeswanthKasi/schmng-sub002/internal/model"
)

// ── 导出模块业务错误 ──

var ErrExportGenerateFail = errors.New("生成 Excel 文件失败")

// ExportService 导出业务接口
//
// 设计说明：
//   - 与考勤历史走同一条逐日重建流程，占位记录同样导出并标记
//   - 加载中断时不导出残缺文件，直接返回错误
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportAttendance 导出考勤明细与汇总为 Excel
	ExportAttendance(ctx context.Context, q *dto.AttendanceQuery) (*bytes.Buffer, string, error)
}

type exportService struct {
	attendance AttendanceService
	loc        *time.Location
	logger     *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(attendance AttendanceService, loc *time.Location, logger *zap.Logger) ExportService {
	if loc == nil {
		loc = time.UTC
	}
	return &exportService{attendance: attendance, loc: loc, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportAttendance — 导出考勤为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - Sheet "明细"：日期 | 状态 | 登记人 | 备注 | 占位（按日期倒序）
//   - Sheet "汇总"：出勤 | 缺勤 | 请假 | 合计 | 出勤率
//
// 返回值：buf（Excel 内容）, filename（建议文件名）, error

func (s *exportService) ExportAttendance(ctx context.Context, q *dto.AttendanceQuery) (*bytes.Buffer, string, error) {
	// 1. 范围与主体
	r, err := s.attendance.ResolveRange(q)
	if err != nil {
		return nil, "", err
	}
	userType, ok := model.ParseUserType(q.UserType)
	if !ok {
		return nil, "", ErrInvalidUserType
	}

	// 2. 逐日重建
	records, err := s.attendance.FetchRange(ctx, q.SubjectID, userType, r)
	if err != nil {
		return nil, "", err
	}
	sum := Aggregate(records)

	// 3. 生成 Excel
	f := excelize.NewFile()
	defer f.Close()

	const detailSheet, summarySheet = "明细", "汇总"
	idx, _ := f.NewSheet(detailSheet)
	f.SetActiveSheet(idx)
	f.NewSheet(summarySheet)
	// 删除默认 Sheet1
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 明细
	f.SetColWidth(detailSheet, "A", "A", 14)
	f.SetColWidth(detailSheet, "B", "B", 12)
	f.SetColWidth(detailSheet, "C", "C", 20)
	f.SetColWidth(detailSheet, "D", "D", 30)
	f.SetColWidth(detailSheet, "E", "E", 8)
	f.SetSheetRow(detailSheet, "A1", &[]interface{}{"日期", "状态", "登记人", "备注", "占位"})
	f.SetCellStyle(detailSheet, "A1", "E1", headerStyle)

	for i := range records {
		rec := &records[i]
		placeholder := ""
		if rec.IsPlaceholder() {
			placeholder = "是"
		}
		row := []interface{}{
			FormatDateKey(rec.Time(s.loc), s.loc),
			string(rec.Status),
			rec.MarkedBy,
			rec.Remarks,
			placeholder,
		}
		f.SetSheetRow(detailSheet, cell("A", i+2), &row)
	}

	// 汇总
	f.SetSheetRow(summarySheet, "A1", &[]interface{}{"出勤", "缺勤", "请假", "合计", "出勤率(%)"})
	f.SetCellStyle(summarySheet, "A1", "E1", headerStyle)
	f.SetSheetRow(summarySheet, "A2", &[]interface{}{
		sum.Present, sum.Absent, sum.Permission, sum.Total, fmt.Sprintf("%.1f", sum.Rate),
	})

	// 4. 写入 buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("attendance_%s_%s_%s.xlsx",
		q.SubjectID, FormatDateKey(r.Start, s.loc), FormatDateKey(r.End, s.loc))
	return buf, filename, nil
}

// cell 生成单元格坐标，如 cell("A", 3) → "A3"
func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
