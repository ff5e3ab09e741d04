package report

import (
	"fmt"
	"strconv"
)

// FormatNumber rút gọn số lớn theo kiểu dashboard: >= 1 triệu thành "X.YM",
// >= 1 nghìn thành "X.YK", còn lại giữ nguyên số nguyên.
// Giá trị thô của các aggregate vẫn là hợp đồng chính, đây chỉ là helper hiển thị.
func FormatNumber(n int64) string {
	if n >= 1_000_000 {
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	}
	if n >= 1_000 {
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	}
	return strconv.FormatInt(n, 10)
}
