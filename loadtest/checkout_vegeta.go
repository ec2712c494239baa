package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	vegeta "github.com/tsenart/vegeta/v12/lib"
)

// loginResponse 登录接口返回的关键字段
type loginResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    struct {
		Token string `json:"token"`
	} `json:"data"`
}

// checkoutResp 下单接口返回，code==0视为逻辑成功
type checkoutResp struct {
	Code int `json:"code"`
	Data struct {
		OrderID     int64  `json:"order_id"`
		OrderNumber string `json:"order_number"`
	} `json:"data"`
}

func main() {
	var (
		gateway   = flag.String("gateway", "http://localhost:8080", "API base URL")
		productID = flag.Int64("product", 1, "商品ID")
		quantity  = flag.Int("quantity", 1, "每次加购数量")
		users     = flag.Int("users", 50, "虚拟用户数")
		rate      = flag.Int("rate", 100, "每秒请求数")
		duration  = flag.String("duration", "30s", "压测时长 (10s, 1m)")
		password  = flag.String("password", "password123", "测试用户统一密码")
		register  = flag.Bool("register", false, "压测前先注册用户")
		outJSON   = flag.String("out", "vegeta_results.json", "结果摘要输出文件")
	)
	flag.Parse()

	attackDuration, err := time.ParseDuration(*duration)
	if err != nil {
		slog.Error("invalid duration", "err", err)
		os.Exit(1)
	}

	tokens := prepareTokens(*gateway, *users, *password, *register)
	if len(tokens) == 0 {
		slog.Error("no tokens prepared; aborting")
		os.Exit(1)
	}

	// 下单会清空购物车，所以请求交替进行：偶数次加购，奇数次下单
	var counter uint64
	targeter := func(t *vegeta.Target) error {
		idx := atomic.AddUint64(&counter, 1) - 1
		token := tokens[(idx/2)%uint64(len(tokens))]
		t.Header = http.Header{}
		t.Header.Set("Content-Type", "application/json")
		t.Header.Set("Authorization", "Bearer "+token)
		t.Method = http.MethodPost

		if idx%2 == 0 {
			b, _ := json.Marshal(map[string]any{
				"product_id": *productID,
				"quantity":   *quantity,
			})
			t.URL = fmt.Sprintf("%s/api/v1/cart/items", *gateway)
			t.Body = b
			return nil
		}

		b, _ := json.Marshal(map[string]any{
			"payment_method": "cash_on_delivery",
			"shipping_address": map[string]string{
				"full_name":   "Load Test",
				"line1":       "1 Bench St",
				"city":        "Testville",
				"postal_code": "00000",
				"country":     "US",
			},
		})
		t.URL = fmt.Sprintf("%s/api/v1/orders", *gateway)
		t.Body = b
		return nil
	}

	attacker := vegeta.NewAttacker()
	var metrics vegeta.Metrics
	successOrders := uint64(0)
	totalOrders := uint64(0)

	for res := range attacker.Attack(targeter, vegeta.Rate{Freq: *rate, Per: time.Second}, attackDuration, "checkout_test") {
		metrics.Add(res)
		// 只统计下单请求的逻辑成功率
		if !bytes.Contains([]byte(res.URL), []byte("/orders")) {
			continue
		}
		atomic.AddUint64(&totalOrders, 1)
		var cr checkoutResp
		if err := json.Unmarshal(res.Body, &cr); err == nil && cr.Code == 0 && cr.Data.OrderID > 0 {
			atomic.AddUint64(&successOrders, 1)
		}
	}
	metrics.Close()

	denom := totalOrders
	if denom == 0 {
		denom = 1
	}
	logicalSuccessRatio := float64(successOrders) / float64(denom)

	summary := map[string]any{
		"attack": map[string]any{
			"rate_rps": *rate,
			"duration": attackDuration.String(),
			"users":    *users,
		},
		"vegeta_metrics": map[string]any{
			"requests":           metrics.Requests,
			"rate":               metrics.Rate,
			"throughput":         metrics.Throughput,
			"success_ratio_http": metrics.Success,
			"latency_mean_ms":    metrics.Latencies.Mean.Seconds() * 1000,
			"latency_p95_ms":     metrics.Latencies.P95.Seconds() * 1000,
			"latency_p99_ms":     metrics.Latencies.P99.Seconds() * 1000,
			"errors":             metrics.Errors,
		},
		"order_success_ratio": logicalSuccessRatio,
		"order_success":       successOrders,
		"order_total":         totalOrders,
		"timestamp":           time.Now().Format(time.RFC3339),
	}

	data, _ := json.MarshalIndent(summary, "", "  ")
	if err := os.WriteFile(*outJSON, data, 0644); err != nil {
		slog.Warn("write summary failed", "err", err)
	}
	fmt.Println(string(data))
}

func prepareTokens(gateway string, users int, password string, doRegister bool) []string {
	tokens := make([]string, 0, users)
	client := &http.Client{Timeout: 5 * time.Second}
	for i := 0; i < users; i++ {
		email := fmt.Sprintf("lt_user_%d@example.com", i)
		if doRegister {
			regBody := map[string]any{
				"email":    email,
				"password": password,
				"name":     fmt.Sprintf("Load Tester %d", i),
			}
			if err := postJSON(client, fmt.Sprintf("%s/api/v1/auth/register", gateway), regBody, nil); err != nil {
				slog.Warn("register failed", "email", email, "err", err)
			}
		}
		var lr loginResponse
		loginBody := map[string]string{"email": email, "password": password}
		err := postJSON(client, fmt.Sprintf("%s/api/v1/auth/login", gateway), loginBody, &lr)
		if err != nil || lr.Data.Token == "" {
			slog.Warn("login failed", "email", email, "err", err)
			continue
		}
		tokens = append(tokens, lr.Data.Token)
	}
	return tokens
}

func postJSON(client *http.Client, url string, payload any, out any) error {
	b, _ := json.Marshal(payload)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return fmt.Errorf("status %d body %s", resp.StatusCode, string(body))
	}
	if out != nil {
		_ = json.Unmarshal(body, out)
	}
	return nil
}
