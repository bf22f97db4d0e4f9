package service

import (
	"context"
	"errors"
	"testing"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"

	"github.com/Lakindu24/TalentHub-Admin/config"
	"github.com/Lakindu24/TalentHub-Admin/internal/dto"
	"github.com/Lakindu24/TalentHub-Admin/internal/model"
	"github.com/Lakindu24/TalentHub-Admin/pkg/qrtoken"
)

// ── 测试辅助 ──

var testQRConfig = &config.QRConfig{
	Secret:     "qr-test-secret",
	Issuer:     "talenthub-test",
	DefaultTTL: 15 * time.Minute,
	MaxTTL:     12 * time.Hour,
}

func setupTestQRService(store SessionStore) (QRSessionService, *testEnv) {
	env := newTestEnv()
	svc := NewQRSessionService(env.repo, env.clock, qrtoken.NewManager(testQRConfig), store, testQRConfig.MaxTTL, env.logger)
	return svc, env
}

func createSession(t *testing.T, svc QRSessionService, typ string) *dto.QRSessionResponse {
	t.Helper()
	sess, err := svc.Create(context.Background(), &dto.CreateQRSessionRequest{Type: typ, Label: "morning"})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	return sess
}

// ── Create / Scan 测试 ──

func TestQRSessionService_Create(t *testing.T) {
	svc, _ := setupTestQRService(newMockSessionStore())

	sess := createSession(t, svc, model.TypeDailyQR)
	if sess.SessionID == "" || sess.Token == "" {
		t.Fatal("应返回会话 ID 与 Token")
	}
	if sess.Type != model.TypeDailyQR || sess.Label != "morning" {
		t.Errorf("会话信息不符: %+v", sess)
	}
	if ttl := time.Until(sess.ExpiresAt); ttl <= 0 || ttl > testQRConfig.DefaultTTL {
		t.Errorf("缺省有效期应为 %v，实际剩余 %v", testQRConfig.DefaultTTL, ttl)
	}
}

func TestQRSessionService_Scan_WritesPhysicalAttendance(t *testing.T) {
	svc, env := setupTestQRService(newMockSessionStore())
	env.seedTrainee("T001", "Alice", "")
	sess := createSession(t, svc, model.TypeDailyQR)

	resp, err := svc.Scan(context.Background(), &dto.ScanQRRequest{Token: sess.Token, TraineeID: "T001"})
	if err != nil {
		t.Fatalf("Scan 应成功: %v", err)
	}
	if resp.Type != model.TypeDailyQR || resp.Date != "2025-03-12" {
		t.Errorf("扫码结果不符: %+v", resp)
	}

	if len(env.physical.entries) != 1 {
		t.Fatalf("期望 1 条线下考勤，实际 %d", len(env.physical.entries))
	}
	for _, e := range env.physical.entries {
		if e.Status != model.StatusPresent || e.MarkedBy != model.MarkedByExternal || e.SessionID != sess.SessionID {
			t.Errorf("考勤记录不符: %+v", e)
		}
	}
}

func TestQRSessionService_Scan_Duplicate(t *testing.T) {
	svc, env := setupTestQRService(newMockSessionStore())
	env.seedTrainee("T001", "Alice", "")
	sess := createSession(t, svc, model.TypeQR)
	ctx := context.Background()

	if _, err := svc.Scan(ctx, &dto.ScanQRRequest{Token: sess.Token, TraineeID: "T001"}); err != nil {
		t.Fatalf("首次扫码应成功: %v", err)
	}
	_, err := svc.Scan(ctx, &dto.ScanQRRequest{Token: sess.Token, TraineeID: "T001"})
	if !errors.Is(err, ErrAlreadyScanned) {
		t.Errorf("期望 ErrAlreadyScanned，实际: %v", err)
	}
}

func TestQRSessionService_Scan_RetryAfterWriteFailure(t *testing.T) {
	svc, env := setupTestQRService(newMockSessionStore())
	env.seedTrainee("T001", "Alice", "")
	sess := createSession(t, svc, model.TypeQR)
	ctx := context.Background()

	env.physical.err = errors.New("db down")
	if _, err := svc.Scan(ctx, &dto.ScanQRRequest{Token: sess.Token, TraineeID: "T001"}); err == nil {
		t.Fatal("写入失败时扫码应返回错误")
	}

	// 写入恢复后同一会话应允许重试
	env.physical.err = nil
	if _, err := svc.Scan(ctx, &dto.ScanQRRequest{Token: sess.Token, TraineeID: "T001"}); err != nil {
		t.Fatalf("重试扫码应成功: %v", err)
	}
	if len(env.physical.entries) != 1 {
		t.Errorf("期望 1 条线下考勤，实际 %d", len(env.physical.entries))
	}
}

func TestQRSessionService_Scan_NoStoreIsIdempotent(t *testing.T) {
	svc, env := setupTestQRService(nil)
	env.seedTrainee("T001", "Alice", "")
	sess := createSession(t, svc, model.TypeQR)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := svc.Scan(ctx, &dto.ScanQRRequest{Token: sess.Token, TraineeID: "T001"}); err != nil {
			t.Fatalf("第 %d 次扫码应成功: %v", i+1, err)
		}
	}
	if len(env.physical.entries) != 1 {
		t.Errorf("重复扫码应覆盖为 1 条，实际 %d", len(env.physical.entries))
	}
}

func TestQRSessionService_Scan_Revoked(t *testing.T) {
	svc, env := setupTestQRService(newMockSessionStore())
	env.seedTrainee("T001", "Alice", "")
	sess := createSession(t, svc, model.TypeQR)
	ctx := context.Background()

	if err := svc.Revoke(ctx, sess.SessionID); err != nil {
		t.Fatalf("Revoke 应成功: %v", err)
	}
	_, err := svc.Scan(ctx, &dto.ScanQRRequest{Token: sess.Token, TraineeID: "T001"})
	if !errors.Is(err, ErrQRSessionRevoked) {
		t.Errorf("期望 ErrQRSessionRevoked，实际: %v", err)
	}
}

func TestQRSessionService_Revoke_NoStore(t *testing.T) {
	svc, _ := setupTestQRService(nil)

	if err := svc.Revoke(context.Background(), "any"); !errors.Is(err, ErrSessionStoreUnavailable) {
		t.Errorf("期望 ErrSessionStoreUnavailable，实际: %v", err)
	}
}

func TestQRSessionService_Scan_BadTokens(t *testing.T) {
	svc, env := setupTestQRService(newMockSessionStore())
	env.seedTrainee("T001", "Alice", "")

	past := time.Now().Add(-time.Hour)
	expired, err := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, &qrtoken.Claims{
		SessionType: model.TypeQR,
		RegisteredClaims: jwtv5.RegisteredClaims{
			ID:        "expired-session",
			Issuer:    testQRConfig.Issuer,
			IssuedAt:  jwtv5.NewNumericDate(past.Add(-time.Minute)),
			ExpiresAt: jwtv5.NewNumericDate(past),
		},
	}).SignedString([]byte(testQRConfig.Secret))
	if err != nil {
		t.Fatalf("签发测试 Token 失败: %v", err)
	}

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"过期", expired, ErrQRSessionExpired},
		{"乱码", "not-a-token", ErrQRSessionInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Scan(context.Background(), &dto.ScanQRRequest{Token: tt.token, TraineeID: "T001"})
			if !errors.Is(err, tt.want) {
				t.Errorf("期望 %v，实际: %v", tt.want, err)
			}
		})
	}
}

func TestQRSessionService_Scan_UnknownTrainee(t *testing.T) {
	svc, _ := setupTestQRService(newMockSessionStore())
	sess := createSession(t, svc, model.TypeQR)

	_, err := svc.Scan(context.Background(), &dto.ScanQRRequest{Token: sess.Token, TraineeID: "T404"})
	if !errors.Is(err, ErrTraineeNotFound) {
		t.Errorf("期望 ErrTraineeNotFound，实际: %v", err)
	}
}
