// Package kadm provides a Client wrapping pkg/kgo for cluster
// administration: topic and group management, config inspection, and
// offset listing, each call building a request, issuing it through the
// core client's Request (which already knows to route admin requests to
// the controller and group requests to their coordinator), and mapping
// the response's error codes through pkg/kerr.
package kadm

import (
	"context"
	"encoding/base64"
	"fmt"
	"sort"

	"github.com/platformatic/kgo/pkg/kerr"
	"github.com/platformatic/kgo/pkg/kgo"
	"github.com/platformatic/kgo/pkg/kmsg"
)

// Client issues administrative requests against a Kafka cluster through
// an underlying core client.
type Client struct {
	cl *kgo.Client
}

// NewClient wraps cl for administrative use. The underlying client is not
// copied; closing it invalidates this Client too.
func NewClient(cl *kgo.Client) *Client { return &Client{cl: cl} }

// TopicID is a topic's 16 byte broker-assigned identifier.
type TopicID [16]byte

// String returns the topic ID base64 encoded.
func (t TopicID) String() string { return base64.StdEncoding.EncodeToString(t[:]) }

// PartitionDetail is one partition's metadata, as returned by a Metadata
// call. If the partition failed to load, only Partition and Err are set.
type PartitionDetail struct {
	Topic     string
	Partition int32

	Leader          int32
	LeaderEpoch     int32
	Replicas        []int32
	ISR             []int32
	OfflineReplicas []int32

	Err error
}

// PartitionDetails is every partition of one topic, keyed by partition
// number.
type PartitionDetails map[int32]PartitionDetail

// Sorted returns the partitions in partition-number order.
func (ds PartitionDetails) Sorted() []PartitionDetail {
	s := make([]PartitionDetail, 0, len(ds))
	for _, d := range ds {
		s = append(s, d)
	}
	sort.Slice(s, func(i, j int) bool { return s[i].Partition < s[j].Partition })
	return s
}

// TopicDetail is one topic's metadata. If the topic failed to load,
// Partitions is empty and Err is set.
type TopicDetail struct {
	Topic string

	ID         TopicID
	IsInternal bool
	Partitions PartitionDetails

	Err error
}

// TopicDetails is a set of topics' metadata, keyed by topic name.
type TopicDetails map[string]TopicDetail

// Names returns every topic name in ds, sorted.
func (ds TopicDetails) Names() []string {
	all := make([]string, 0, len(ds))
	for t := range ds {
		all = append(all, t)
	}
	sort.Strings(all)
	return all
}

// Metadata is the full result of a Metadata call.
type Metadata struct {
	Cluster    string
	Controller int32
	Brokers    []kgo.BrokerMetadata
	Topics     TopicDetails
}

// Metadata issues a Metadata request for topics (all topics if none are
// given) and returns the cluster's brokers and topic/partition layout.
func (a *Client) Metadata(ctx context.Context, topics ...string) (Metadata, error) {
	req := &kmsg.MetadataRequest{}
	for _, t := range topics {
		topic := t
		req.Topics = append(req.Topics, kmsg.MetadataRequestTopic{Topic: &topic})
	}
	if len(topics) == 0 {
		req.Topics = nil
	}

	resp, err := a.cl.Request(ctx, req)
	if err != nil {
		return Metadata{}, err
	}
	metaResp := resp.(*kmsg.MetadataResponse)

	tds := make(TopicDetails, len(metaResp.Topics))
	for _, t := range metaResp.Topics {
		td := TopicDetail{
			Topic:      t.Topic,
			ID:         TopicID(t.TopicID),
			IsInternal: t.IsInternal,
			Partitions: make(PartitionDetails, len(t.Partitions)),
			Err:        kerr.ErrorForCode(t.ErrorCode),
		}
		for _, p := range t.Partitions {
			td.Partitions[p.Partition] = PartitionDetail{
				Topic:           t.Topic,
				Partition:       p.Partition,
				Leader:          p.Leader,
				LeaderEpoch:     p.LeaderEpoch,
				Replicas:        p.Replicas,
				ISR:             p.ISR,
				OfflineReplicas: p.OfflineReplicas,
				Err:             kerr.ErrorForCode(p.ErrorCode),
			}
		}
		tds[t.Topic] = td
	}

	m := Metadata{Controller: metaResp.ControllerID, Topics: tds}
	if metaResp.ClusterID != nil {
		m.Cluster = *metaResp.ClusterID
	}
	for _, b := range metaResp.Brokers {
		m.Brokers = append(m.Brokers, kgo.BrokerMetadata{NodeID: b.NodeID, Host: b.Host, Port: b.Port, Rack: b.Rack})
	}
	return m, nil
}

// CreateTopicResult is one topic's result from a CreateTopics call.
type CreateTopicResult struct {
	Topic string
	Err   error
}

// CreateTopics creates each of topics with the given partition count and
// replication factor (-1 lets the broker choose a default for either).
func (a *Client) CreateTopics(ctx context.Context, partitions int32, replicationFactor int16, configs map[string]*string, topics ...string) ([]CreateTopicResult, error) {
	req := &kmsg.CreateTopicsRequest{TimeoutMillis: 30000}
	for _, t := range topics {
		ct := kmsg.CreateTopicsRequestTopic{
			Topic:             t,
			NumPartitions:     partitions,
			ReplicationFactor: replicationFactor,
		}
		for name, val := range configs {
			ct.Configs = append(ct.Configs, kmsg.CreateTopicsRequestTopicConfig{Name: name, Value: val})
		}
		req.Topics = append(req.Topics, ct)
	}

	resp, err := a.cl.Request(ctx, req)
	if err != nil {
		return nil, err
	}
	ctResp := resp.(*kmsg.CreateTopicsResponse)
	out := make([]CreateTopicResult, len(ctResp.Topics))
	for i, t := range ctResp.Topics {
		out[i] = CreateTopicResult{Topic: t.Topic, Err: kerr.ErrorForCode(t.ErrorCode)}
	}
	return out, nil
}

// DeleteTopicResult is one topic's result from a DeleteTopics call.
type DeleteTopicResult struct {
	Topic string
	Err   error
}

// DeleteTopics deletes every topic named.
func (a *Client) DeleteTopics(ctx context.Context, topics ...string) ([]DeleteTopicResult, error) {
	req := &kmsg.DeleteTopicsRequest{TimeoutMillis: 30000}
	for _, t := range topics {
		topic := t
		req.Topics = append(req.Topics, kmsg.DeleteTopicsRequestTopic{Topic: &topic})
	}

	resp, err := a.cl.Request(ctx, req)
	if err != nil {
		return nil, err
	}
	dtResp := resp.(*kmsg.DeleteTopicsResponse)
	out := make([]DeleteTopicResult, len(dtResp.Topics))
	for i, t := range dtResp.Topics {
		var name string
		if t.Topic != nil {
			name = *t.Topic
		}
		out[i] = DeleteTopicResult{Topic: name, Err: kerr.ErrorForCode(t.ErrorCode)}
	}
	return out, nil
}

// ListedOffset is one partition's offset, as returned by ListStartOffsets
// or ListEndOffsets.
type ListedOffset struct {
	Topic     string
	Partition int32
	Offset    int64
	Err       error
}

// ListStartOffsets returns the oldest available offset (the log start
// offset) for every partition of the given topics.
func (a *Client) ListStartOffsets(ctx context.Context, topics ...string) ([]ListedOffset, error) {
	return a.listOffsets(ctx, kmsg.TimestampEarliest, topics)
}

// ListEndOffsets returns the newest offset (the high watermark) for every
// partition of the given topics.
func (a *Client) ListEndOffsets(ctx context.Context, topics ...string) ([]ListedOffset, error) {
	return a.listOffsets(ctx, kmsg.TimestampLatest, topics)
}

func (a *Client) listOffsets(ctx context.Context, timestamp int64, topics []string) ([]ListedOffset, error) {
	meta, err := a.Metadata(ctx, topics...)
	if err != nil {
		return nil, err
	}

	req := &kmsg.ListOffsetsRequest{ReplicaID: -1, IsolationLevel: kmsg.IsolationReadUncommitted}
	for _, name := range meta.Topics.Names() {
		td := meta.Topics[name]
		rt := kmsg.ListOffsetsRequestTopic{Topic: name}
		for _, p := range td.Partitions.Sorted() {
			rt.Partitions = append(rt.Partitions, kmsg.ListOffsetsRequestPartition{
				Partition:          p.Partition,
				CurrentLeaderEpoch: -1,
				Timestamp:          timestamp,
			})
		}
		req.Topics = append(req.Topics, rt)
	}

	resp, err := a.cl.Request(ctx, req)
	if err != nil {
		return nil, err
	}
	loResp := resp.(*kmsg.ListOffsetsResponse)
	var out []ListedOffset
	for _, t := range loResp.Topics {
		for _, p := range t.Partitions {
			out = append(out, ListedOffset{
				Topic:     t.Topic,
				Partition: p.Partition,
				Offset:    p.Offset,
				Err:       kerr.ErrorForCode(p.ErrorCode),
			})
		}
	}
	return out, nil
}

// GroupDescription is one consumer group's full description.
type GroupDescription struct {
	Group        string
	State        string
	ProtocolType string
	Protocol     string
	Members      []GroupMember
	Err          error
}

// GroupMember is one member of a described consumer group.
type GroupMember struct {
	MemberID   string
	InstanceID *string
	ClientID   string
	ClientHost string
}

// DescribeGroups returns the full description of each named group.
func (a *Client) DescribeGroups(ctx context.Context, groups ...string) ([]GroupDescription, error) {
	req := &kmsg.DescribeGroupsRequest{Groups: groups}
	resp, err := a.cl.Request(ctx, req)
	if err != nil {
		return nil, err
	}
	dgResp := resp.(*kmsg.DescribeGroupsResponse)

	out := make([]GroupDescription, len(dgResp.Groups))
	for i, g := range dgResp.Groups {
		gd := GroupDescription{
			Group:        g.Group,
			State:        g.State,
			ProtocolType: g.ProtocolType,
			Protocol:     g.Protocol,
			Err:          kerr.ErrorForCode(g.ErrorCode),
		}
		for _, m := range g.Members {
			gd.Members = append(gd.Members, GroupMember{
				MemberID:   m.MemberID,
				InstanceID: m.InstanceID,
				ClientID:   m.ClientID,
				ClientHost: m.ClientHost,
			})
		}
		out[i] = gd
	}
	return out, nil
}

// ListedGroup is one group's summary, as returned by ListGroups.
type ListedGroup struct {
	Group        string
	ProtocolType string
	State        string
}

// ListGroups lists every consumer group the cluster knows about.
func (a *Client) ListGroups(ctx context.Context) ([]ListedGroup, error) {
	resp, err := a.cl.Request(ctx, &kmsg.ListGroupsRequest{})
	if err != nil {
		return nil, err
	}
	lgResp := resp.(*kmsg.ListGroupsResponse)
	if err := kerr.ErrorForCode(lgResp.ErrorCode); err != nil {
		return nil, err
	}
	out := make([]ListedGroup, len(lgResp.Groups))
	for i, g := range lgResp.Groups {
		out[i] = ListedGroup{Group: g.Group, ProtocolType: g.ProtocolType, State: g.State}
	}
	return out, nil
}

// DeleteGroupResult is one group's result from a DeleteGroups call.
type DeleteGroupResult struct {
	Group string
	Err   error
}

// DeleteGroups deletes every named consumer group.
func (a *Client) DeleteGroups(ctx context.Context, groups ...string) ([]DeleteGroupResult, error) {
	resp, err := a.cl.Request(ctx, &kmsg.DeleteGroupsRequest{Groups: groups})
	if err != nil {
		return nil, err
	}
	dgResp := resp.(*kmsg.DeleteGroupsResponse)
	out := make([]DeleteGroupResult, len(dgResp.Groups))
	for i, g := range dgResp.Groups {
		out[i] = DeleteGroupResult{Group: g.Group, Err: kerr.ErrorForCode(g.ErrorCode)}
	}
	return out, nil
}

// ResourceConfig is one resource's configuration, as returned by
// DescribeConfigs.
type ResourceConfig struct {
	ResourceType int8
	ResourceName string
	Configs      map[string]*string
	Err          error
}

// DescribeConfigs describes the named resources (topics or brokers,
// per resourceType).
func (a *Client) DescribeConfigs(ctx context.Context, resourceType int8, names ...string) ([]ResourceConfig, error) {
	req := &kmsg.DescribeConfigsRequest{}
	for _, n := range names {
		req.Resources = append(req.Resources, kmsg.DescribeConfigsRequestResource{
			ResourceType: resourceType,
			ResourceName: n,
		})
	}
	resp, err := a.cl.Request(ctx, req)
	if err != nil {
		return nil, err
	}
	dcResp := resp.(*kmsg.DescribeConfigsResponse)

	out := make([]ResourceConfig, len(dcResp.Resources))
	for i, res := range dcResp.Resources {
		rc := ResourceConfig{
			ResourceType: res.ResourceType,
			ResourceName: res.ResourceName,
			Configs:      make(map[string]*string, len(res.Configs)),
			Err:          kerr.ErrorForCode(res.ErrorCode),
		}
		for _, c := range res.Configs {
			rc.Configs[c.Name] = c.Value
		}
		out[i] = rc
	}
	return out, nil
}

// AlterConfig is a single config key/value to set on a resource.
type AlterConfig struct {
	Name  string
	Value *string
}

// AlterConfigResult is one resource's result from an AlterConfigs call.
type AlterConfigResult struct {
	ResourceName string
	Err          error
}

// AlterConfigs replaces resourceName's entire config with configs (this
// is AlterConfigs, not IncrementalAlterConfigs: unset keys revert to
// their broker default).
func (a *Client) AlterConfigs(ctx context.Context, resourceType int8, resourceName string, configs []AlterConfig) error {
	req := &kmsg.AlterConfigsRequest{}
	res := kmsg.AlterConfigsRequestResource{ResourceType: resourceType, ResourceName: resourceName}
	for _, c := range configs {
		res.Configs = append(res.Configs, kmsg.AlterConfigsRequestConfig{Name: c.Name, Value: c.Value})
	}
	req.Resources = append(req.Resources, res)

	resp, err := a.cl.Request(ctx, req)
	if err != nil {
		return err
	}
	acResp := resp.(*kmsg.AlterConfigsResponse)
	for _, r := range acResp.Resources {
		if err := kerr.ErrorForCode(r.ErrorCode); err != nil {
			return fmt.Errorf("alter configs for %s %q: %w", resourceName, r.ResourceName, err)
		}
	}
	return nil
}
