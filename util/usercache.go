package util

import (
	"container/list"
	"sync"

	"gorm.io/gorm"
)

const defaultUserNameCacheSize = 1000

// LRU cache for userID -> full name
type userEntry struct {
	userID uint
	name   string
}

type userLRU struct {
	mu       sync.Mutex
	ll       *list.List
	cache    map[uint]*list.Element
	capacity int
}

var userCache *userLRU

// InitUserNameCache initializes the LRU cache with given capacity.
// If capacity <= 0, a default of 1000 is used.
func InitUserNameCache(capacity int) {
	if capacity <= 0 {
		capacity = defaultUserNameCacheSize
	}
	userCache = &userLRU{
		ll:       list.New(),
		cache:    make(map[uint]*list.Element),
		capacity: capacity,
	}
}

// UserNameCacheGet returns the cached name and true if present.
func UserNameCacheGet(userID uint) (string, bool) {
	if userCache == nil {
		return "", false
	}
	userCache.mu.Lock()
	defer userCache.mu.Unlock()
	if ele, ok := userCache.cache[userID]; ok {
		userCache.ll.MoveToFront(ele)
		return ele.Value.(userEntry).name, true
	}
	return "", false
}

// UserNameCacheSet stores the name of userID, evicting the least recently used entry when full.
func UserNameCacheSet(userID uint, name string) {
	if userCache == nil {
		return
	}
	userCache.mu.Lock()
	defer userCache.mu.Unlock()
	if ele, ok := userCache.cache[userID]; ok {
		userCache.ll.MoveToFront(ele)
		ele.Value = userEntry{userID: userID, name: name}
		return
	}
	ele := userCache.ll.PushFront(userEntry{userID: userID, name: name})
	userCache.cache[userID] = ele
	if userCache.ll.Len() > userCache.capacity {
		if tail := userCache.ll.Back(); tail != nil {
			delete(userCache.cache, tail.Value.(userEntry).userID)
			userCache.ll.Remove(tail)
		}
	}
}

// UserNameCacheInvalidate drops userID from the cache. Call it after the
// user is renamed or deleted.
func UserNameCacheInvalidate(userID uint) {
	if userCache == nil {
		return
	}
	userCache.mu.Lock()
	defer userCache.mu.Unlock()
	if ele, ok := userCache.cache[userID]; ok {
		userCache.ll.Remove(ele)
		delete(userCache.cache, userID)
	}
}

// GetUserName returns the full name of userID using the cache, falling
// back to the users table. Unknown users yield "".
func GetUserName(db *gorm.DB, userID uint) string {
	if userID == 0 {
		return ""
	}
	if name, ok := UserNameCacheGet(userID); ok {
		return name
	}
	if db == nil {
		return ""
	}
	var u struct{ FullName string }
	if err := db.Table("users").Select("full_name").Where("id = ?", userID).Take(&u).Error; err != nil {
		return ""
	}
	if u.FullName != "" {
		UserNameCacheSet(userID, u.FullName)
	}
	return u.FullName
}
