package mockserver

import (
	"encoding/json"
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vera-byte/vgo-pushctl/pkg/model"
)

// TimeLayout 后端使用的时间格式
const TimeLayout = "2006-01-02 15:04:05"

// 存储层错误
var (
	ErrNotFound        = errors.New("record not found")
	ErrBadCredentials  = errors.New("invalid username or password")
	ErrWrongPassword   = errors.New("current password is incorrect")
	ErrDuplicate       = errors.New("record already exists")
	ErrUnknownUserKey  = errors.New("unknown user key")
	ErrUnsupported     = errors.New("unsupported platform")
	ErrMissingSettings = errors.New("platform settings are required")
	ErrDisabled        = errors.New("push config is disabled")
	ErrInvalid         = errors.New("invalid parameters")
)

// SupportedPlatforms 支持的推送平台
var SupportedPlatforms = []string{
	model.PlatformBark,
	model.PlatformEmail,
	model.PlatformWxPusher,
	model.PlatformPushMe,
}

type account struct {
	user     model.User
	password string
}

type ownedConfig struct {
	userID     int64
	cfg        model.PushConfig
	createTime string
	updateTime string
}

// Store 模拟后端的内存数据
type Store struct {
	mu  sync.RWMutex
	now func() time.Time
	seq int64

	accounts    map[int64]*account
	tokens      map[string]int64
	dictTypes   map[int64]model.DictType
	dictData    map[int64]model.DictData
	pushConfigs map[int64]*ownedConfig
	tagConfigs  map[int64]model.TagPushConfig
	messages    map[int64]model.MessageRecord
	pushRecords map[int64][]model.PushRecord
}

// NewStore 创建空的内存数据
func NewStore() *Store {
	return &Store{
		now:         time.Now,
		accounts:    make(map[int64]*account),
		tokens:      make(map[string]int64),
		dictTypes:   make(map[int64]model.DictType),
		dictData:    make(map[int64]model.DictData),
		pushConfigs: make(map[int64]*ownedConfig),
		tagConfigs:  make(map[int64]model.TagPushConfig),
		messages:    make(map[int64]model.MessageRecord),
		pushRecords: make(map[int64][]model.PushRecord),
	}
}

func (s *Store) nextID() int64 {
	s.seq++
	return s.seq
}

func (s *Store) timestamp() string {
	return s.now().Format(TimeLayout)
}

// AddUser 新增用户
func (s *Store) AddUser(username, password, nickname string, roles ...string) model.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := model.User{
		ID:       s.nextID(),
		Username: username,
		Nickname: nickname,
		Email:    username + "@example.com",
		UserKey:  newKey(),
		Roles:    append([]string(nil), roles...),
	}
	s.accounts[u.ID] = &account{user: u, password: password}
	return *u.Clone()
}

// Login 校验用户名密码并签发令牌
func (s *Store) Login(username, password string) (string, model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.accounts {
		if a.user.Username == username && a.password == password {
			token := newKey()
			s.tokens[token] = a.user.ID
			return token, *a.user.Clone(), nil
		}
	}
	return "", model.User{}, ErrBadCredentials
}

// Authenticate 根据令牌查找用户
func (s *Store) Authenticate(token string) (*model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.tokens[token]
	if !ok {
		return nil, false
	}
	a, ok := s.accounts[id]
	if !ok {
		return nil, false
	}
	return a.user.Clone(), true
}

// Revoke 作废令牌
func (s *Store) Revoke(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
}

// ChangePassword 修改密码，成功后作废该用户的其他令牌
func (s *Store) ChangePassword(userID int64, current, next, keepToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[userID]
	if !ok {
		return ErrNotFound
	}
	if a.password != current {
		return ErrWrongPassword
	}
	if strings.TrimSpace(next) == "" {
		return ErrInvalid
	}
	a.password = next
	for token, id := range s.tokens {
		if id == userID && token != keepToken {
			delete(s.tokens, token)
		}
	}
	return nil
}

// ResetUserKey 重新生成用户推送密钥
func (s *Store) ResetUserKey(userID int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[userID]
	if !ok {
		return "", ErrNotFound
	}
	a.user.UserKey = newKey()
	return a.user.UserKey, nil
}

func (s *Store) accountByKey(userKey string) (*account, bool) {
	for _, a := range s.accounts {
		if a.user.UserKey == userKey {
			return a, true
		}
	}
	return nil, false
}

// ListDictTypes 分页查询字典类型
func (s *Store) ListDictTypes(q model.DictTypeQuery) model.Page[model.DictType] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]model.DictType, 0, len(s.dictTypes))
	for _, t := range s.dictTypes {
		if q.DictName != "" && !strings.Contains(t.DictName, q.DictName) {
			continue
		}
		if q.DictType != "" && !strings.Contains(t.DictType, q.DictType) {
			continue
		}
		items = append(items, t)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return paginate(items, q.PageNum, q.PageSize)
}

// DictType 查询字典类型
func (s *Store) DictType(id int64) (model.DictType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.dictTypes[id]
	if !ok {
		return model.DictType{}, ErrNotFound
	}
	return t, nil
}

// SaveDictType ID为0时新增，否则修改
func (s *Store) SaveDictType(t model.DictType) (model.DictType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.DictName == "" || t.DictType == "" {
		return model.DictType{}, ErrInvalid
	}
	for id, existing := range s.dictTypes {
		if existing.DictType == t.DictType && id != t.ID {
			return model.DictType{}, ErrDuplicate
		}
	}

	now := s.timestamp()
	if t.ID == 0 {
		t.ID = s.nextID()
		t.CreateTime = now
	} else {
		old, ok := s.dictTypes[t.ID]
		if !ok {
			return model.DictType{}, ErrNotFound
		}
		t.CreateTime = old.CreateTime
		if old.DictType != t.DictType {
			for id, d := range s.dictData {
				if d.DictType == old.DictType {
					d.DictType = t.DictType
					s.dictData[id] = d
				}
			}
		}
	}
	t.UpdateTime = now
	s.dictTypes[t.ID] = t
	return t, nil
}

// DeleteDictType 删除字典类型及其数据
func (s *Store) DeleteDictType(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.dictTypes[id]
	if !ok {
		return ErrNotFound
	}
	delete(s.dictTypes, id)
	for dataID, d := range s.dictData {
		if d.DictType == t.DictType {
			delete(s.dictData, dataID)
		}
	}
	return nil
}

// ListDictData 分页查询字典数据
func (s *Store) ListDictData(q model.DictDataQuery) model.Page[model.DictData] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]model.DictData, 0, len(s.dictData))
	for _, d := range s.dictData {
		if q.DictType != "" && d.DictType != q.DictType {
			continue
		}
		if q.DictLabel != "" && !strings.Contains(d.DictLabel, q.DictLabel) {
			continue
		}
		items = append(items, d)
	}
	sortDictData(items)
	return paginate(items, q.PageNum, q.PageSize)
}

// DictDataByType 查询某类型下启用的字典数据
func (s *Store) DictDataByType(dictType string) []model.DictData {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]model.DictData, 0)
	for _, d := range s.dictData {
		if d.DictType == dictType && d.Status == 0 {
			items = append(items, d)
		}
	}
	sortDictData(items)
	return items
}

// DictData 查询字典数据
func (s *Store) DictData(id int64) (model.DictData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.dictData[id]
	if !ok {
		return model.DictData{}, ErrNotFound
	}
	return d, nil
}

// SaveDictData ID为0时新增，否则修改
func (s *Store) SaveDictData(d model.DictData) (model.DictData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if d.DictType == "" || d.DictLabel == "" || d.DictValue == "" {
		return model.DictData{}, ErrInvalid
	}
	known := false
	for _, t := range s.dictTypes {
		if t.DictType == d.DictType {
			known = true
			break
		}
	}
	if !known {
		return model.DictData{}, ErrNotFound
	}
	for id, existing := range s.dictData {
		if id != d.ID && existing.DictType == d.DictType && existing.DictValue == d.DictValue {
			return model.DictData{}, ErrDuplicate
		}
	}

	now := s.timestamp()
	if d.ID == 0 {
		d.ID = s.nextID()
		d.CreateTime = now
	} else {
		old, ok := s.dictData[d.ID]
		if !ok {
			return model.DictData{}, ErrNotFound
		}
		d.CreateTime = old.CreateTime
	}
	d.UpdateTime = now
	s.dictData[d.ID] = d
	return d, nil
}

// DeleteDictData 删除字典数据
func (s *Store) DeleteDictData(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.dictData[id]; !ok {
		return ErrNotFound
	}
	delete(s.dictData, id)
	return nil
}

// DictLabel 查询字典标签，未命中时返回值本身
func (s *Store) DictLabel(dictType, dictValue string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, d := range s.dictData {
		if d.DictType == dictType && d.DictValue == dictValue {
			return d.DictLabel
		}
	}
	return dictValue
}

func sortDictData(items []model.DictData) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].DictSort != items[j].DictSort {
			return items[i].DictSort < items[j].DictSort
		}
		return items[i].ID < items[j].ID
	})
}

// PushConfigs 查询用户的推送配置
func (s *Store) PushConfigs(userID int64, platform string) []model.PushConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pushConfigsLocked(userID, platform)
}

func (s *Store) pushConfigsLocked(userID int64, platform string) []model.PushConfig {
	items := make([]model.PushConfig, 0)
	for _, o := range s.pushConfigs {
		if o.userID != userID {
			continue
		}
		if platform != "" && o.cfg.Platform != platform {
			continue
		}
		items = append(items, o.cfg)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].SortOrder != items[j].SortOrder {
			return items[i].SortOrder < items[j].SortOrder
		}
		return items[i].ID < items[j].ID
	})
	return items
}

// PushConfig 查询用户的单个推送配置
func (s *Store) PushConfig(userID, id int64) (model.PushConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.pushConfigs[id]
	if !ok || o.userID != userID {
		return model.PushConfig{}, ErrNotFound
	}
	return o.cfg, nil
}

// SavePushConfig ID为0时新增，否则修改
func (s *Store) SavePushConfig(userID int64, cfg model.PushConfig) (model.PushConfig, error) {
	if err := validatePushConfig(cfg); err != nil {
		return model.PushConfig{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.timestamp()
	if cfg.ID == 0 {
		cfg.ID = s.nextID()
		s.pushConfigs[cfg.ID] = &ownedConfig{userID: userID, cfg: cfg, createTime: now, updateTime: now}
		return cfg, nil
	}

	o, ok := s.pushConfigs[cfg.ID]
	if !ok || o.userID != userID {
		return model.PushConfig{}, ErrNotFound
	}
	o.cfg = cfg
	o.updateTime = now
	return cfg, nil
}

func validatePushConfig(cfg model.PushConfig) error {
	if strings.TrimSpace(cfg.ConfigName) == "" {
		return ErrInvalid
	}
	var present bool
	switch cfg.Platform {
	case model.PlatformBark:
		present = cfg.Bark != nil && cfg.Bark.DeviceKey != ""
	case model.PlatformEmail:
		present = cfg.Email != nil && cfg.Email.ToEmail != ""
	case model.PlatformWxPusher:
		present = cfg.WxPusher != nil && cfg.WxPusher.AppToken != ""
	case model.PlatformPushMe:
		present = cfg.PushMe != nil && cfg.PushMe.PushKey != ""
	default:
		return ErrUnsupported
	}
	if !present {
		return ErrMissingSettings
	}
	return nil
}

// DeletePushConfig 删除推送配置，同时从标签配置中移除
func (s *Store) DeletePushConfig(userID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.pushConfigs[id]
	if !ok || o.userID != userID {
		return ErrNotFound
	}
	delete(s.pushConfigs, id)
	for tagID, t := range s.tagConfigs {
		kept := make([]int64, 0, len(t.PushConfigIDs))
		for _, cid := range t.PushConfigIDs {
			if cid != id {
				kept = append(kept, cid)
			}
		}
		t.PushConfigIDs = kept
		s.tagConfigs[tagID] = t
	}
	return nil
}

// TogglePushConfig 启用或禁用推送配置
func (s *Store) TogglePushConfig(userID, id int64, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.pushConfigs[id]
	if !ok || o.userID != userID {
		return ErrNotFound
	}
	o.cfg.IsEnabled = boolInt(enabled)
	o.updateTime = s.timestamp()
	return nil
}

// UserPushConfigs 以存储形式返回用户推送配置
func (s *Store) UserPushConfigs(userID int64) []model.UserPushConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]model.UserPushConfig, 0)
	for _, cfg := range s.pushConfigsLocked(userID, "") {
		o := s.pushConfigs[cfg.ID]
		items = append(items, model.UserPushConfig{
			ID:         cfg.ID,
			UserID:     userID,
			Platform:   cfg.Platform,
			ConfigName: cfg.ConfigName,
			ConfigData: settingsJSON(cfg),
			IsEnabled:  cfg.IsEnabled,
			SortOrder:  cfg.SortOrder,
			Remark:     cfg.Remark,
			CreateTime: o.createTime,
			UpdateTime: o.updateTime,
		})
	}
	return items
}

func settingsJSON(cfg model.PushConfig) string {
	var v interface{}
	switch cfg.Platform {
	case model.PlatformBark:
		v = cfg.Bark
	case model.PlatformEmail:
		v = cfg.Email
	case model.PlatformWxPusher:
		v = cfg.WxPusher
	case model.PlatformPushMe:
		v = cfg.PushMe
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(raw)
}

// TagPushConfigs 查询用户的标签推送配置
func (s *Store) TagPushConfigs(userID int64) []model.TagPushConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]model.TagPushConfig, 0)
	for _, t := range s.tagConfigs {
		if t.UserID == userID {
			items = append(items, t)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items
}

// TagNames 用户消息和标签配置中出现过的标签
func (s *Store) TagNames(userID int64) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, m := range s.messages {
		if m.UserID != userID {
			continue
		}
		for _, tag := range m.Tags {
			seen[tag] = struct{}{}
		}
	}
	for _, t := range s.tagConfigs {
		if t.UserID == userID {
			seen[t.TagName] = struct{}{}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SaveTagPushConfig 按ID或标签名新增或修改标签推送配置
func (s *Store) SaveTagPushConfig(userID int64, t model.TagPushConfig) (model.TagPushConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(t.TagName) == "" {
		return model.TagPushConfig{}, ErrInvalid
	}
	for _, id := range t.PushConfigIDs {
		o, ok := s.pushConfigs[id]
		if !ok || o.userID != userID {
			return model.TagPushConfig{}, ErrNotFound
		}
	}

	if t.ID == 0 {
		for _, existing := range s.tagConfigs {
			if existing.UserID == userID && existing.TagName == t.TagName {
				t.ID = existing.ID
				break
			}
		}
	}

	now := s.timestamp()
	t.UserID = userID
	t.UpdateTime = now
	if t.ID == 0 {
		t.ID = s.nextID()
		t.CreateTime = now
	} else {
		old, ok := s.tagConfigs[t.ID]
		if !ok || old.UserID != userID {
			return model.TagPushConfig{}, ErrNotFound
		}
		t.CreateTime = old.CreateTime
	}
	s.tagConfigs[t.ID] = t
	return t, nil
}

// DeleteTagPushConfig 删除标签推送配置
func (s *Store) DeleteTagPushConfig(userID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tagConfigs[id]
	if !ok || t.UserID != userID {
		return ErrNotFound
	}
	delete(s.tagConfigs, id)
	return nil
}

// TestPushConfig 校验推送配置可用于测试推送
func (s *Store) TestPushConfig(userID, id int64) (model.PushConfig, error) {
	cfg, err := s.PushConfig(userID, id)
	if err != nil {
		return cfg, err
	}
	if !cfg.Enabled() {
		return cfg, ErrDisabled
	}
	return cfg, nil
}

// ListMessages 分页查询用户消息，按创建时间倒序
func (s *Store) ListMessages(userID int64, q model.MessageQuery) model.Page[model.MessageRecord] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]model.MessageRecord, 0)
	for _, m := range s.messages {
		if m.UserID != userID {
			continue
		}
		if q.MessageType != "" && m.MessageType != q.MessageType {
			continue
		}
		if q.StartTime != "" && m.CreateTime < q.StartTime {
			continue
		}
		if q.EndTime != "" && m.CreateTime > q.EndTime {
			continue
		}
		items = append(items, m)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreateTime != items[j].CreateTime {
			return items[i].CreateTime > items[j].CreateTime
		}
		return recordID(items[i]) > recordID(items[j])
	})
	return paginate(items, q.Page, q.Size)
}

// Message 查询用户的单条消息
func (s *Store) Message(userID, id int64) (model.MessageRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.messages[id]
	if !ok || m.UserID != userID {
		return model.MessageRecord{}, ErrNotFound
	}
	return m, nil
}

// PushRecords 查询消息的推送记录
func (s *Store) PushRecords(userID, messageID int64) ([]model.PushRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.messages[messageID]
	if !ok || m.UserID != userID {
		return nil, ErrNotFound
	}
	return append([]model.PushRecord{}, s.pushRecords[messageID]...), nil
}

// Statistics 统计最近days天的消息
func (s *Store) Statistics(userID int64, days int) model.MessageStatistics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	end := s.now()
	start := end.AddDate(0, 0, -days)
	from, to := start.Format(TimeLayout), end.Format(TimeLayout)

	typeStats := map[string]int64{
		model.MessageTypeNotification: 0,
		model.MessageTypeAlert:        0,
		model.MessageTypeSystem:       0,
		model.MessageTypeCustom:       0,
	}
	var total int64
	for _, m := range s.messages {
		if m.UserID != userID || m.CreateTime < from || m.CreateTime > to {
			continue
		}
		total++
		if _, ok := typeStats[m.MessageType]; ok {
			typeStats[m.MessageType]++
		}
	}

	return model.MessageStatistics{
		"totalCount": total,
		"typeStats":  typeStats,
		"days":       days,
		"startTime":  from,
		"endTime":    to,
	}
}

// Push 接收一条推送消息，按标签配置或启用的推送配置分发并记录
func (s *Store) Push(req model.MessagePushRequest) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accountByKey(req.UserKey)
	if !ok {
		return 0, ErrUnknownUserKey
	}
	if req.Title == "" && req.Content == "" {
		return 0, ErrInvalid
	}

	targets := s.targetsLocked(a.user.ID, req)
	now := s.timestamp()
	id := s.nextID()

	msg := model.MessageRecord{
		ID:          strconv.FormatInt(id, 10),
		UserID:      a.user.ID,
		UserCode:    a.user.Username,
		MessageType: orDefault(req.MessageType, model.MessageTypeNotification),
		Title:       req.Title,
		Subtitle:    req.Subtitle,
		Content:     req.Content,
		Group:       req.Group,
		URL:         req.URL,
		Source:      orDefault(req.Source, "api"),
		Level:       orDefault(req.Level, "active"),
		Tags:        append([]string{}, req.Tags...),
		ExtraData:   extraJSON(req.ExtraData),
		Status:      1,
		CreateTime:  now,
		UpdateTime:  now,
	}

	records := make([]model.PushRecord, 0, len(targets))
	for _, cfg := range targets {
		records = append(records, model.PushRecord{
			ID:           s.nextID(),
			MessageID:    id,
			UserID:       a.user.ID,
			Platform:     cfg.Platform,
			ConfigName:   cfg.ConfigName,
			PushStatus:   1,
			RequestData:  settingsJSON(cfg),
			ResponseData: `{"code":200}`,
			PushTime:     now,
			CreateTime:   now,
		})
		msg.PushedPlatforms = append(msg.PushedPlatforms, cfg.Platform)
		msg.PushSuccessCount++
	}
	if msg.PushedPlatforms == nil {
		msg.PushedPlatforms = []string{}
	}

	s.messages[id] = msg
	s.pushRecords[id] = records
	return id, nil
}

// targetsLocked 命中启用的标签配置时使用其推送配置，否则使用全部启用的推送配置
func (s *Store) targetsLocked(userID int64, req model.MessagePushRequest) []model.PushConfig {
	enabled := make(map[int64]model.PushConfig)
	for _, cfg := range s.pushConfigsLocked(userID, "") {
		if cfg.Enabled() {
			enabled[cfg.ID] = cfg
		}
	}

	var ids []int64
	for _, t := range s.tagConfigs {
		if t.UserID != userID || t.IsEnabled != 1 {
			continue
		}
		for _, tag := range req.Tags {
			if tag == t.TagName {
				ids = append(ids, t.PushConfigIDs...)
			}
		}
	}

	var out []model.PushConfig
	seen := make(map[int64]bool)
	add := func(cfg model.PushConfig) {
		if seen[cfg.ID] || !platformAllowed(cfg.Platform, req.Platforms) {
			return
		}
		seen[cfg.ID] = true
		out = append(out, cfg)
	}
	if len(ids) > 0 {
		for _, id := range ids {
			if cfg, ok := enabled[id]; ok {
				add(cfg)
			}
		}
	} else {
		for _, cfg := range s.pushConfigsLocked(userID, "") {
			if cfg.Enabled() {
				add(cfg)
			}
		}
	}
	return out
}

func recordID(m model.MessageRecord) int64 {
	id, _ := strconv.ParseInt(m.ID, 10, 64)
	return id
}

func platformAllowed(platform string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, p := range allowed {
		if p == platform {
			return true
		}
	}
	return false
}

func paginate[T any](items []T, page, size int) model.Page[T] {
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 10
	}
	total := len(items)
	start := (page - 1) * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}
	return model.Page[T]{
		Records: append(make([]T, 0, end-start), items[start:end]...),
		Total:   int64(total),
		Page:    int64(page),
		Size:    int64(size),
		Pages:   int64((total + size - 1) / size),
	}
}

func newKey() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func extraJSON(extra map[string]interface{}) string {
	if len(extra) == 0 {
		return "{}"
	}
	raw, err := json.Marshal(extra)
	if err != nil {
		return "{}"
	}
	return string(raw)
}
