package desktop

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Forward передаёт ссылки уже запущенному экземпляру через его мост и
// возвращает число доставленных окну кодов.
func Forward(ctx context.Context, addr string, urls []string) (int, error) {
	const op = "desktop.Forward"

	body, err := json.Marshal(map[string][]string{"urls": urls})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "http://"+addr+"/deeplink", bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	var out struct {
		Status string `json:"status"`
		Error  string `json:"error"`
		Data   struct {
			Delivered int `json:"delivered"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("%s: decode response: %w", op, err)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%s: %s: %s", op, resp.Status, out.Error)
	}
	return out.Data.Delivered, nil
}
