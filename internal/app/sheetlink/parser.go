package sheetlink

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"
)

// ParseCSV 把表格导出的原始 CSV 文本解析成行（第 0 行是表头）。
//
// 行为约定：
// - 行分隔符 \n / \r\n 都接受（encoding/csv 自带归一化）
// - 引号字段可以包含逗号、换行，"" 表示字面引号
// - 字段内部的空白原样保留，裁剪是 Validator 的事
// - 每个字段都为空白的行不产出（表格末尾常见的全空行）
// - 空输入、或去掉空行后不足“表头 + 1 行数据”，按数据错误处理：
//   对一个短链目录来说，“完全没有内容”比“暂时没有记录”更像配置错了
func ParseCSV(raw string) ([][]string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, NewError(KindData, "empty or blank csv input")
	}

	r := csv.NewReader(strings.NewReader(raw))
	r.FieldsPerRecord = -1 // 列数不齐的行交给 Validator 逐行处理，不在这里整体报错

	rows := make([][]string, 0, 16)
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, WrapError(KindData, "csv parse failed", err)
		}
		if blankRow(rec) {
			continue
		}
		rows = append(rows, rec)
	}

	if len(rows) < 2 {
		return nil, NewError(KindData, "csv must contain a header and at least one data row")
	}
	return rows, nil
}

func blankRow(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
