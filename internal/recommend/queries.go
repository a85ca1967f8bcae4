// Murmur - Social Feed and People Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/murmur

package recommend

// GraphQuery is a named, parameterized Cypher template.
// Name is used for metrics and logging; Cypher is sent to the graph store.
type GraphQuery struct {
	Name   string
	Cypher string
}

// Graph queries used by the engine. Every query takes $userId.
var (
	// QueryInterests returns tag, weight and lastUpdated for each interest edge.
	QueryInterests = GraphQuery{
		Name: "interests",
		Cypher: `MATCH (u:User {id: $userId})-[r:INTERESTED_IN]->(t:Tag)
RETURN t.name AS tag, r.weight AS weight, r.updatedAt AS lastUpdated`,
	}

	// QueryInteractions returns postId and summed weight for interactions
	// created at or after $since.
	QueryInteractions = GraphQuery{
		Name: "interactions",
		Cypher: `MATCH (u:User {id: $userId})-[i:INTERACTED_WITH]->(p:Post)
WHERE i.createdAt >= $since
RETURN p.id AS postId, sum(coalesce(i.weight, 1.0)) AS weight`,
	}

	// QueryFriendsOfFriends returns users followed by people the requester
	// follows, ranked by the number of such common followers. Takes $limit.
	QueryFriendsOfFriends = GraphQuery{
		Name: "friends_of_friends",
		Cypher: `MATCH (u:User {id: $userId})-[:FOLLOWS]->(f:User)-[:FOLLOWS]->(s:User)
WHERE s.id <> $userId AND NOT (u)-[:FOLLOWS]->(s)
WITH s, count(DISTINCT f) AS commonCount, collect(DISTINCT f.id)[0..5] AS connections
RETURN s.id AS userId, commonCount, connections
ORDER BY commonCount DESC
LIMIT $limit`,
	}

	// QuerySharedInterests returns users followed by people who share an
	// interest tag with the requester, ranked by the number of such people.
	// Takes $excludeIds and $limit. Order among equal counts is unspecified.
	QuerySharedInterests = GraphQuery{
		Name: "shared_interests",
		Cypher: `MATCH (u:User {id: $userId})-[:INTERESTED_IN]->(:Tag)<-[:INTERESTED_IN]-(o:User)-[:FOLLOWS]->(s:User)
WHERE o.id <> $userId AND s.id <> $userId AND NOT s.id IN $excludeIds AND NOT (u)-[:FOLLOWS]->(s)
WITH s, count(DISTINCT o) AS commonCount, collect(DISTINCT o.id)[0..5] AS connections
RETURN s.id AS userId, commonCount, connections
ORDER BY commonCount DESC
LIMIT $limit`,
	}
)
