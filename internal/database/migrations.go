package database

import (
	"context"
	"fmt"
)

var migrations = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`,

	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		email VARCHAR(255) UNIQUE NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		token_hash VARCHAR(255) UNIQUE NOT NULL,
		expires_at TIMESTAMP WITH TIME ZONE NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_refresh_tokens_user_id ON refresh_tokens(user_id)`,

	`CREATE TABLE IF NOT EXISTS user_roles (
		user_id UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		role VARCHAR(20) NOT NULL DEFAULT 'user' CHECK (role IN ('user', 'superadmin')),
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS user_permissions (
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		permission VARCHAR(50) NOT NULL
			CHECK (permission IN ('travel_editor', 'prices_editor', 'view_statistics', 'is_creator')),
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		PRIMARY KEY (user_id, permission)
	)`,

	`CREATE TABLE IF NOT EXISTS user_profiles (
		user_id UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		first_name VARCHAR(100),
		last_name VARCHAR(100),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS user_notifications (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		type VARCHAR(50) NOT NULL,
		title VARCHAR(255) NOT NULL,
		message TEXT NOT NULL,
		link VARCHAR(500),
		metadata JSONB NOT NULL DEFAULT '{}',
		is_read BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_user_notifications_unread ON user_notifications(user_id) WHERE NOT is_read`,

	`CREATE TABLE IF NOT EXISTS adventures (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(255) NOT NULL,
		description TEXT,
		created_by UUID NOT NULL REFERENCES users(id),
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS adventure_creators (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		adventure_id UUID NOT NULL REFERENCES adventures(id) ON DELETE CASCADE,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		UNIQUE(adventure_id, user_id)
	)`,

	`CREATE TABLE IF NOT EXISTS adventure_participants (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		adventure_id UUID NOT NULL REFERENCES adventures(id) ON DELETE CASCADE,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		added_by UUID REFERENCES users(id) ON DELETE SET NULL,
		invitation_status VARCHAR(20) CHECK (invitation_status IN ('pending', 'accepted')),
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		UNIQUE(adventure_id, user_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_adventure_participants_user_id ON adventure_participants(user_id)`,

	`CREATE TABLE IF NOT EXISTS adventure_destinations (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		adventure_id UUID NOT NULL REFERENCES adventures(id) ON DELETE CASCADE,
		name VARCHAR(255) NOT NULL,
		description TEXT,
		image_url VARCHAR(1000),
		tags TEXT[],
		order_index INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_adventure_destinations_adventure_id ON adventure_destinations(adventure_id)`,

	`CREATE TABLE IF NOT EXISTS adventure_destination_places (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		destination_id UUID NOT NULL REFERENCES adventure_destinations(id) ON DELETE CASCADE,
		name VARCHAR(255) NOT NULL,
		description TEXT,
		order_index INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS adventure_destination_votes (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		destination_id UUID NOT NULL REFERENCES adventure_destinations(id) ON DELETE CASCADE,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		vote_type VARCHAR(20) NOT NULL CHECK (vote_type IN ('yes', 'no', 'proponi')),
		comment TEXT,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		UNIQUE(destination_id, user_id)
	)`,

	// Legacy flat votes for the fixed catalog destinations.
	`CREATE TABLE IF NOT EXISTS destination_votes (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		destination_id VARCHAR(50) NOT NULL,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		user_email VARCHAR(255) NOT NULL,
		vote_type VARCHAR(10) NOT NULL CHECK (vote_type IN ('yes', 'no')),
		comment TEXT,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		UNIQUE(destination_id, user_id)
	)`,

	`CREATE TABLE IF NOT EXISTS kv_entries (
		key VARCHAR(255) PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE OR REPLACE FUNCTION get_user_id_by_email(p_email TEXT)
	RETURNS UUID LANGUAGE sql STABLE AS $$
		SELECT id FROM users WHERE lower(email) = lower(p_email)
	$$`,

	`CREATE OR REPLACE FUNCTION get_user_email_by_id(p_user_id UUID)
	RETURNS TEXT LANGUAGE sql STABLE AS $$
		SELECT email FROM users WHERE id = p_user_id
	$$`,

	`CREATE OR REPLACE FUNCTION create_user_notification(
		p_user_id UUID, p_type TEXT, p_title TEXT, p_message TEXT, p_link TEXT, p_metadata JSONB
	) RETURNS UUID LANGUAGE plpgsql AS $$
	DECLARE
		new_id UUID;
	BEGIN
		INSERT INTO user_notifications (user_id, type, title, message, link, metadata)
		VALUES (p_user_id, p_type, p_title, p_message, p_link, COALESCE(p_metadata, '{}'::jsonb))
		RETURNING id INTO new_id;
		RETURN new_id;
	END
	$$`,
}

func (db *DB) Migrate(ctx context.Context) error {
	for i, migration := range migrations {
		if _, err := db.Pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
