package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
)

func TestIsDuplicateKey(t *testing.T) {
	dup := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'amina' for key 'uq_users_username'"}

	t.Run("driver duplicate-key error", func(t *testing.T) {
		assert.True(t, isDuplicateKey(dup))
	})

	t.Run("wrapped driver error", func(t *testing.T) {
		assert.True(t, isDuplicateKey(fmt.Errorf("insert user: %w", dup)))
	})

	t.Run("other driver errors", func(t *testing.T) {
		assert.False(t, isDuplicateKey(&mysql.MySQLError{Number: 1452, Message: "fk fails"}))
		assert.False(t, isDuplicateKey(errors.New("Duplicate entry, but not a driver error")))
		assert.False(t, isDuplicateKey(nil))
	})
}

func TestIsFKViolation(t *testing.T) {
	fk := &mysql.MySQLError{Number: 1452, Message: "Cannot add or update a child row: a foreign key constraint fails"}

	assert.True(t, isFKViolation(fk))
	assert.True(t, isFKViolation(fmt.Errorf("insert bookmark: %w", fk)))
	assert.False(t, isFKViolation(&mysql.MySQLError{Number: 1062, Message: "dup"}))
	assert.False(t, isFKViolation(errors.New("1452 somewhere in a message")))
	assert.False(t, isFKViolation(nil))
}
