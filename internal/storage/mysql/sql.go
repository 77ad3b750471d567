package mysql

// ---- schema ----

const createHotelsSQL = `
CREATE TABLE IF NOT EXISTS hotel_details (
  id           VARCHAR(10)   PRIMARY KEY,
  name         VARCHAR(256)  NOT NULL,
  street       VARCHAR(512),
  city         VARCHAR(32),
  state        VARCHAR(32),
  latitude     DOUBLE(8,2),
  longitude    DOUBLE(8,2),
  areadesc     VARCHAR(4000),
  propertydesc VARCHAR(4000)
)`

// Note: `user` is quoted everywhere; it is a keyword in MySQL.
const createReviewsSQL = "CREATE TABLE IF NOT EXISTS review_details (\n" +
	"  reviewid      VARCHAR(64)   PRIMARY KEY,\n" +
	"  hotelid       VARCHAR(32)   NOT NULL,\n" +
	"  `user`        VARCHAR(512),\n" +
	"  rating        DOUBLE(8,2),\n" +
	"  isrecommended BOOLEAN,\n" +
	"  title         VARCHAR(2000),\n" +
	"  reviewtext    VARCHAR(4000),\n" +
	"  reviewdate    VARCHAR(256),\n" +
	"  INDEX idx_review_hotel (hotelid),\n" +
	"  INDEX idx_review_user (`user`)\n" +
	")"

const createUsersSQL = `
CREATE TABLE IF NOT EXISTS login_users (
  userid       INTEGER AUTO_INCREMENT PRIMARY KEY,
  username     VARCHAR(32)  NOT NULL UNIQUE,
  password     CHAR(64)     NOT NULL,
  usersalt     CHAR(32)     NOT NULL,
  lastlogin    VARCHAR(256),
  currentlogin VARCHAR(256)
)`

const createLinkTableFmt = "CREATE TABLE IF NOT EXISTS %s (\n" +
	"  id     VARCHAR(64) NOT NULL,\n" +
	"  `user` VARCHAR(64) NOT NULL,\n" +
	"  PRIMARY KEY (id, `user`)\n" +
	")"

// ---- hotels ----

const hotelColumns = "id, name, street, city, state, latitude, longitude, areadesc, propertydesc"

const hotelExistsSQL = `SELECT 1 FROM hotel_details WHERE id = ?`

const insertHotelSQL = `
INSERT INTO hotel_details
  (id, name, street, city, state, latitude, longitude, areadesc, propertydesc)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const selectHotelSQL = "SELECT " + hotelColumns + " FROM hotel_details WHERE id = ?"

const listHotelsSQL = "SELECT " + hotelColumns + " FROM hotel_details ORDER BY id"

const searchHotelsBase = "SELECT " + hotelColumns + " FROM hotel_details"

const listCitiesSQL = `SELECT DISTINCT city FROM hotel_details WHERE city IS NOT NULL AND city <> '' ORDER BY city`

const updateDescriptionsSQL = `UPDATE hotel_details SET areadesc = ?, propertydesc = ? WHERE id = ?`

const deleteHotelReviewsSQL = `DELETE FROM review_details WHERE hotelid = ?`

const deleteHotelSavedSQL = `DELETE FROM saved_hotels WHERE id = ?`

const deleteHotelSQL = `DELETE FROM hotel_details WHERE id = ?`

// ---- reviews ----

const reviewColumns = "reviewid, hotelid, `user`, rating, isrecommended, title, reviewtext, reviewdate"

const reviewExistsSQL = `SELECT 1 FROM review_details WHERE reviewid = ?`

const insertReviewSQL = "INSERT INTO review_details\n  (" + reviewColumns + ")\nVALUES\n  (?, ?, ?, ?, ?, ?, ?, ?)"

const updateReviewSQL = `UPDATE review_details SET title = ?, reviewtext = ?, rating = ?, isrecommended = ? WHERE reviewid = ?`

const deleteReviewSQL = `DELETE FROM review_details WHERE reviewid = ?`

const deleteReviewsByUserSQL = "DELETE FROM review_details WHERE `user` = ?"

const selectReviewSQL = "SELECT " + reviewColumns + " FROM review_details WHERE reviewid = ?"

// reviewdate is stored as YYYY-MM-DDTHH:MM:SS so lexical order is time order.
const reviewOrder = " ORDER BY reviewdate DESC, `user` ASC, reviewid ASC"

const reviewsByHotelSQL = "SELECT " + reviewColumns + " FROM review_details WHERE hotelid = ?" + reviewOrder

const reviewsByUserSQL = "SELECT " + reviewColumns + " FROM review_details WHERE `user` = ?" + reviewOrder

const avgRatingSQL = `SELECT AVG(rating) AS avgRating FROM review_details WHERE hotelid = ?`

// ---- users ----

const userExistsSQL = `SELECT username FROM login_users WHERE username = ?`

const registerUserSQL = `INSERT INTO login_users (username, password, usersalt) VALUES (?, ?, ?)`

const userSaltSQL = `SELECT usersalt FROM login_users WHERE username = ?`

const authenticateSQL = `SELECT username FROM login_users WHERE username = ? AND password = ?`

const deleteUserSQL = `DELETE FROM login_users WHERE username = ?`

const lastLoginSQL = `SELECT username, lastlogin, currentlogin FROM login_users WHERE username = ?`

const lastLoginForUpdateSQL = lastLoginSQL + ` FOR UPDATE`

const updateLastLoginSQL = `UPDATE login_users SET lastlogin = ?, currentlogin = ? WHERE username = ?`

// ---- saved hotels / visited links ----

const (
	savedHotelsTable  = "saved_hotels"
	visitedLinksTable = "visited_links"
)

const linkExistsFmt = "SELECT 1 FROM %s WHERE id = ? AND `user` = ?"

const insertLinkFmt = "INSERT INTO %s (id, `user`) VALUES (?, ?)"

const deleteLinkFmt = "DELETE FROM %s WHERE id = ? AND `user` = ?"

const listLinksFmt = "SELECT id FROM %s WHERE `user` = ? ORDER BY id"

const clearLinksFmt = "DELETE FROM %s WHERE `user` = ?"
