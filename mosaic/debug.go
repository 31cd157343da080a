package mosaic

import (
	"encoding/json"
	"os"
)

// WritePlanJSON 将渲染计划输出为 JSON，便于调试或可视化。
// 源图像本体不参与序列化。
func WritePlanJSON(plan *Plan, path string) error {
	if plan == nil {
		return nil
	}
	data, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
