package sqlite

import "database/sql"

// migrations contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist. Child tables carry a
// position column so ordered sets (managers, requests, summary lines)
// round-trip in insertion order.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    display_name TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    admin INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS groupbuys (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS groupbuy_managers (
    groupbuy_id TEXT NOT NULL,
    user_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    PRIMARY KEY (groupbuy_id, user_id),
    FOREIGN KEY (groupbuy_id) REFERENCES groupbuys(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS groupbuy_members (
    groupbuy_id TEXT NOT NULL,
    user_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    PRIMARY KEY (groupbuy_id, user_id),
    FOREIGN KEY (groupbuy_id) REFERENCES groupbuys(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS groupbuy_visibility (
    groupbuy_id TEXT NOT NULL,
    field TEXT NOT NULL,
    level TEXT NOT NULL,
    PRIMARY KEY (groupbuy_id, field),
    FOREIGN KEY (groupbuy_id) REFERENCES groupbuys(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS groupbuy_updates (
    groupbuy_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    publish_date INTEGER NOT NULL,
    text_info TEXT NOT NULL,
    PRIMARY KEY (groupbuy_id, position),
    FOREIGN KEY (groupbuy_id) REFERENCES groupbuys(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS items (
    id TEXT PRIMARY KEY,
    groupbuy_id TEXT NOT NULL,
    owner_id TEXT NOT NULL,
    title TEXT NOT NULL,
    price INTEGER NOT NULL,
    currency TEXT NOT NULL,
    max_quantity INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL,
    UNIQUE (groupbuy_id, title),
    FOREIGN KEY (groupbuy_id) REFERENCES groupbuys(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS orders (
    id TEXT PRIMARY KEY,
    groupbuy_id TEXT NOT NULL,
    user_id TEXT NOT NULL,
    subtotal INTEGER NOT NULL DEFAULT 0,
    shipping_cost INTEGER NOT NULL DEFAULT 0,
    other_costs INTEGER NOT NULL DEFAULT 0,
    total INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL,
    FOREIGN KEY (groupbuy_id) REFERENCES groupbuys(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS requests (
    id TEXT PRIMARY KEY,
    order_id TEXT NOT NULL,
    user_id TEXT NOT NULL,
    request_date INTEGER NOT NULL,
    position INTEGER NOT NULL,
    FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS request_lines (
    request_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    item_id TEXT NOT NULL,
    quantity INTEGER NOT NULL,
    PRIMARY KEY (request_id, position),
    FOREIGN KEY (request_id) REFERENCES requests(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS order_summaries (
    order_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    item_id TEXT NOT NULL,
    quantity INTEGER NOT NULL,
    PRIMARY KEY (order_id, position),
    FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS messages (
    id TEXT PRIMARY KEY,
    groupbuy_id TEXT NOT NULL,
    from_user_id TEXT NOT NULL,
    to_user_id TEXT,
    text TEXT NOT NULL,
    unread INTEGER NOT NULL DEFAULT 1,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (groupbuy_id) REFERENCES groupbuys(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_items_groupbuy_id ON items(groupbuy_id);
CREATE INDEX IF NOT EXISTS idx_orders_groupbuy_id ON orders(groupbuy_id);
CREATE INDEX IF NOT EXISTS idx_orders_groupbuy_user ON orders(groupbuy_id, user_id);
CREATE INDEX IF NOT EXISTS idx_requests_order_id ON requests(order_id);
CREATE INDEX IF NOT EXISTS idx_messages_groupbuy_id ON messages(groupbuy_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
